package response

import (
	"errors"
	"net/http"

	"viemind/i18n"
	"viemind/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

const (
	localeKey     = "locale"
	translatorKey = "translator"
)

// WithLocale stores the translator and the negotiated locale on the request
func WithLocale(c *gin.Context, translator *i18n.Translator, locale string) {
	c.Set(translatorKey, translator)
	c.Set(localeKey, locale)
}

// Locale returns the negotiated locale of the request, empty when none was set
func Locale(c *gin.Context) string {
	return c.GetString(localeKey)
}

// T translates a message id in the request's locale
func T(c *gin.Context, messageID string, data map[string]any) string {
	value, exists := c.Get(translatorKey)
	translator, ok := value.(*i18n.Translator)
	if !exists || !ok || translator == nil {
		return messageID
	}
	return translator.T(Locale(c), messageID, data)
}

// Error sends a standardized, localized error response
func Error(c *gin.Context, status int, messageID string) {
	c.JSON(status, gin.H{"message": T(c, messageID, nil)})
}

// Message sends a localized informational message
func Message(c *gin.Context, status int, messageID string) {
	c.JSON(status, gin.H{"message": T(c, messageID, nil)})
}

// Success sends the payload as the response body
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// ValidationError sends a response for request binding errors
func ValidationError(c *gin.Context, err error) {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	body := gin.H{"message": T(c, services.ErrInvalidRequest.MessageID, nil)}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

// StatusFor maps a service error kind to its HTTP status
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the response for an error returned by a service
func FromError(c *gin.Context, err error) {
	var serr *services.Error
	if errors.As(err, &serr) && serr.Kind != services.KindInternal {
		Error(c, StatusFor(serr.Kind), serr.MessageID)
		return
	}

	log.WithFields(log.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Errorf("Unhandled error: %v", err)
	Error(c, http.StatusInternalServerError, "error.internal")
}
