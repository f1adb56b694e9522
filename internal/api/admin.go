package api

import (
	"context"       // Cache lookups
	"errors"        // Error classification
	"fmt"           // Message formatting
	"html/template" // Trusted export link
	"net/http"      // HTTP status codes
	"net/url"       // Export link
	"strings"       // Input trimming
	"time"          // Cache lifetime

	"dorm_booking/internal/domain"     // Importing domain models
	"dorm_booking/internal/export"     // XLSX reports
	"dorm_booking/internal/flash"      // Redirect messages
	"dorm_booking/internal/ledger"     // Room inventory
	"dorm_booking/internal/middleware" // Current staff user
	"dorm_booking/internal/notify"     // Template errors
	"dorm_booking/internal/utils"      // Redis JSON cache
	"dorm_booking/internal/workflow"   // Application lifecycle

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

const templatesCacheKey = "cache:email_templates"

// criteria validates the form and converts it to workflow search criteria
func (f ApplicationSearchForm) criteria() (workflow.Criteria, map[string]string) {
	errs := validateForm(f)
	c := workflow.Criteria{Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email)}
	if v, ok := parseID(errs, "student_id", "Student ID", f.StudentID, 64); ok {
		c.StudentID = v
	}
	if v, ok := parseID(errs, "room_id", "Room", f.RoomID, 0); ok {
		c.RoomID = uint(v)
	}
	if f.Status != "" {
		st, ok := domain.ParseStatus(f.Status)
		if !ok {
			errs["status"] = "Status is invalid."
		}
		c.Status = st
	}
	return c, errs
}

// query encodes the form for the export link
func (f ApplicationSearchForm) query() string {
	v := url.Values{}
	for k, s := range map[string]string{
		"student_id": f.StudentID, "room_id": f.RoomID, "status": f.Status, "name": f.Name, "email": f.Email,
	} {
		if s != "" {
			v.Set(k, s)
		}
	}
	return v.Encode()
}

// ApplicationSearchHandler lists applications, filtered on POST
func ApplicationSearchHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form ApplicationSearchForm
		if c.Request.Method == http.MethodPost {
			_ = c.ShouldBind(&form)
		}
		data := gin.H{
			"Title": "Applications", "Form": form, "Errors": map[string]string{},
			"ExportURL": template.URL("/application_search/export?" + form.query()), // Already query-encoded
		}
		criteria, errs := form.criteria()
		if len(errs) > 0 {
			data["Errors"] = errs
			render(c, d, http.StatusUnprocessableEntity, "application_search.html", data)
			return
		}
		apps, err := d.Workflow.Search(c.Request.Context(), criteria)
		if err != nil {
			serverError(c, d, err)
			return
		}
		data["Applications"] = apps
		render(c, d, http.StatusOK, "application_search.html", data)
	}
}

// ExportApplicationsHandler downloads the filtered applications as an Excel workbook
func ExportApplicationsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form ApplicationSearchForm
		_ = c.ShouldBindQuery(&form)
		criteria, errs := form.criteria()
		if len(errs) > 0 {
			redirect(c, d, "/application_search", flash.Danger, "Invalid search filters.")
			return
		}
		apps, err := d.Workflow.Search(c.Request.Context(), criteria)
		if err != nil {
			serverError(c, d, err)
			return
		}
		data, err := export.Applications(apps)
		if err != nil {
			serverError(c, d, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=applications.xlsx")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}

// ApprovePageHandler shows an application next to the room it asks for
func ApprovePageHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		appID, ok1 := uintParam(c, "application_id")
		roomID, ok2 := uintParam(c, "room_id")
		if !ok1 || !ok2 {
			redirect(c, d, "/application_search", flash.Danger, "Application not found.")
			return
		}
		app, err := d.Workflow.Get(ctx, appID)
		if err != nil {
			approvalFailed(c, d, err)
			return
		}
		room, err := d.Ledger.Get(ctx, roomID)
		if err != nil {
			approvalFailed(c, d, err)
			return
		}
		if app.RoomIDValue() != roomID {
			approvalFailed(c, d, workflow.ErrRoomMismatch)
			return
		}
		render(c, d, http.StatusOK, "approve_application.html", gin.H{
			"Title": "Review application", "Application": app, "Room": room,
		})
	}
}

// ApproveHandler approves a pending application and emails the applicant
func ApproveHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		appID, ok1 := uintParam(c, "application_id")
		roomID, ok2 := uintParam(c, "room_id")
		if !ok1 || !ok2 {
			redirect(c, d, "/application_search", flash.Danger, "Application not found.")
			return
		}
		staff, _ := middleware.CurrentUser(c)
		out, err := d.Workflow.Approve(c.Request.Context(), staff, appID, roomID)
		if err != nil {
			approvalFailed(c, d, err)
			return
		}
		d.Flash.Add(c, flash.Success, fmt.Sprintf("Application %d approved.", out.Application.ID))
		switch {
		case out.NotifyErr == nil:
		case errors.Is(out.NotifyErr, notify.ErrTemplateNotFound):
			d.Flash.Add(c, flash.Warning, fmt.Sprintf("No email template exists for %q. The applicant was not notified.", out.Application.Status))
		default:
			d.Flash.Add(c, flash.Warning, "The notification email could not be prepared.")
		}
		c.Redirect(http.StatusFound, "/application_search")
	}
}

// approvalFailed maps approval errors to a flash and a redirect
func approvalFailed(c *gin.Context, d *Deps, err error) {
	back := c.Request.URL.Path
	switch {
	case errors.Is(err, workflow.ErrApplicationNotFound):
		redirect(c, d, "/application_search", flash.Danger, "Application not found.")
	case errors.Is(err, ledger.ErrRoomNotFound):
		redirect(c, d, "/application_search", flash.Danger, "Room not found.")
	case errors.Is(err, workflow.ErrRoomMismatch):
		redirect(c, d, "/application_search", flash.Danger, "The application is for a different room.")
	case errors.Is(err, ledger.ErrNoRoomsAvailable):
		redirect(c, d, back, flash.Warning, "No rooms available for this room type. The application remains pending.")
	case errors.Is(err, workflow.ErrInvalidState):
		redirect(c, d, back, flash.Warning, "Only pending applications can be approved.")
	default:
		serverError(c, d, err)
	}
}

// listTemplates reads the template list through the Redis cache
func listTemplates(ctx context.Context, d *Deps) ([]domain.EmailTemplate, error) {
	var cached []domain.EmailTemplate
	if found, err := utils.GetCache(ctx, d.Redis, templatesCacheKey, &cached); err == nil && found {
		return cached, nil
	}
	list, err := d.Templates.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = utils.SetCache(ctx, d.Redis, templatesCacheKey, list, time.Minute)
	return list, nil
}

// EmailTemplatesHandler renders the template editor and the existing templates
func EmailTemplatesHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := listTemplates(c.Request.Context(), d)
		if err != nil {
			serverError(c, d, err)
			return
		}
		render(c, d, http.StatusOK, "create_email_template.html", gin.H{
			"Title":     "Email templates",
			"Form":      EmailTemplateForm{Status: string(domain.StatusApproved)},
			"Errors":    map[string]string{},
			"Templates": list,
		})
	}
}

// SaveEmailTemplateHandler creates or replaces the template for a status
func SaveEmailTemplateHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var form EmailTemplateForm
		_ = c.ShouldBind(&form)
		errs := validateForm(form)
		status, ok := domain.ParseStatus(form.Status)
		if _, bad := errs["status"]; !bad && !ok {
			errs["status"] = "Status is invalid."
		}
		if len(errs) > 0 {
			list, err := listTemplates(ctx, d)
			if err != nil {
				serverError(c, d, err)
				return
			}
			render(c, d, http.StatusUnprocessableEntity, "create_email_template.html", gin.H{
				"Title": "Email templates", "Form": form, "Errors": errs, "Templates": list,
			})
			return
		}
		tpl := domain.EmailTemplate{Status: status, Subject: form.Subject, Body: form.Body}
		if err := d.Templates.Save(ctx, &tpl); err != nil {
			serverError(c, d, err)
			return
		}
		if err := utils.DeleteCache(ctx, d.Redis, templatesCacheKey); err != nil {
			logrus.WithError(err).Warn("Failed to drop cached template list")
		}
		staff, _ := middleware.CurrentUser(c)
		logrus.WithFields(logrus.Fields{"status": status, "saved_by": staff.UserID}).Info("Email template saved")
		redirect(c, d, "/create_email_template", flash.Success, "Email template saved.")
	}
}
