package validators

import (
	"errors"
	"slices"

	"devlink/connect-api/internal/model"
)

var ErrStatusInvalid = errors.New("invalid status type")

// Each connection endpoint accepts its own subset of the status
// enumeration. "cancelled" is in the schema but no endpoint takes it
var (
	sendStatuses   = []string{model.StatusIgnored, model.StatusInterested}
	reviewStatuses = []string{model.StatusAccepted, model.StatusRejected}
	listStatuses   = []string{model.StatusInterested, model.StatusAccepted}
)

func SendStatusValidator(s string) error {
	if !slices.Contains(sendStatuses, s) {
		return ErrStatusInvalid
	}

	return nil
}

func ReviewStatusValidator(s string) error {
	if !slices.Contains(reviewStatuses, s) {
		return ErrStatusInvalid
	}

	return nil
}

func ListStatusValidator(s string) error {
	if !slices.Contains(listStatuses, s) {
		return ErrStatusInvalid
	}

	return nil
}
