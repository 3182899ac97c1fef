package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func sameSiteMode() http.SameSite {
	switch viper.GetString("cookies.same_site") {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

// setAuthCookies sets the token pair as http-only cookies. Lifetimes
// follow the token TTLs so the cookies never outlive their contents
func (a *API) setAuthCookies(c *gin.Context, access, refresh string) {
	secure := viper.GetBool("host.ssl.enabled")
	domain := viper.GetString("host.domain")

	c.SetSameSite(sameSiteMode())
	c.SetCookie("accessToken", access, int(a.Tokens.AccessTTL.Seconds()), "/", domain, secure, true)
	c.SetCookie("refreshToken", refresh, int(a.Tokens.RefreshTTL.Seconds()), "/", domain, secure, true)
}

func (a *API) clearAuthCookies(c *gin.Context) {
	secure := viper.GetBool("host.ssl.enabled")
	domain := viper.GetString("host.domain")

	c.SetSameSite(sameSiteMode())
	c.SetCookie("accessToken", "", -1, "/", domain, secure, true)
	c.SetCookie("refreshToken", "", -1, "/", domain, secure, true)
}
