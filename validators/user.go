package validators

import (
	"errors"
	"slices"
	"strings"

	"devlink/connect-api/internal/model"
)

var (
	ErrFirstNameEmpty = errors.New("no first name provided")
	ErrLastNameEmpty  = errors.New("no last name provided")
	ErrGenderInvalid  = errors.New("gender must be one of male, female or other")
	ErrSkillInvalid   = errors.New("skill tags can't contain commas")
)

// NameValidator requires both name fields at registration
func NameValidator(firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" {
		return ErrFirstNameEmpty
	}

	if strings.TrimSpace(lastName) == "" {
		return ErrLastNameEmpty
	}

	return nil
}

// SkillsValidator rejects tags the StringSlice column can't store
func SkillsValidator(skills []string) error {
	for _, s := range skills {
		if strings.Contains(s, ",") {
			return ErrSkillInvalid
		}
	}

	return nil
}

// GenderValidator accepts the empty string since the field is optional
func GenderValidator(g string) error {
	if g == "" {
		return nil
	}

	if !slices.Contains(model.ValidGenders, g) {
		return ErrGenderInvalid
	}

	return nil
}
