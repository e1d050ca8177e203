package middleware

import (
	"viemind/i18n"
	"viemind/utils/response"

	"github.com/gin-gonic/gin"
)

// LocaleMiddleware negotiates the response language from ?lang=, then
// Accept-Language, then the default locale
func LocaleMiddleware(translator *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := translator.Match(c.Query("lang"), c.GetHeader("Accept-Language"))
		response.WithLocale(c, translator, locale)
		c.Header("Content-Language", locale)
		c.Next()
	}
}
