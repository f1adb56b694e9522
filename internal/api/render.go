package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"dorm_booking/internal/flash"      // Redirect messages
	"dorm_booking/internal/middleware" // Request identity

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// render writes an HTML page with the caller's identity and pending flash
// messages. extra carries messages raised while handling this same request.
func render(c *gin.Context, d *Deps, status int, name string, data gin.H, extra ...flash.Message) {
	if data == nil {
		data = gin.H{}
	}
	if id, ok := middleware.CurrentIdentity(c); ok {
		data["Identity"] = &id // nil pointer for anonymous pages
	}
	data["Flashes"] = append(d.Flash.Pop(c), extra...)
	c.HTML(status, name, data)
}

// redirect queues a flash message and sends the browser to location
func redirect(c *gin.Context, d *Deps, location, category, text string) {
	if text != "" {
		d.Flash.Add(c, category, text)
	}
	c.Redirect(http.StatusFound, location)
}

// serverError logs err and renders the generic error page
func serverError(c *gin.Context, d *Deps, err error) {
	logrus.WithFields(logrus.Fields{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	}).Error("Request failed")
	render(c, d, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": "Something went wrong on our side. Please try again later.",
	})
}

// uintParam reads a positive numeric path parameter
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// identity returns the caller; routes reaching it sit behind RequireLogin or RequireRole
func identity(c *gin.Context) middleware.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}
