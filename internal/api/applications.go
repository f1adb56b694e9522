package api

import (
	"errors"   // Error classification
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"dorm_booking/internal/flash"    // Redirect messages
	"dorm_booking/internal/ledger"   // Room lookups for redisplay
	"dorm_booking/internal/workflow" // Application lifecycle

	"github.com/gin-gonic/gin" // Gin web framework
)

// bookForm redisplays the application form with per-field messages
func bookForm(c *gin.Context, d *Deps, roomID uint, action string, form workflow.ApplicationForm, errs workflow.ValidationErrors) {
	room, err := d.Ledger.Get(c.Request.Context(), roomID)
	if err != nil {
		serverError(c, d, err)
		return
	}
	render(c, d, http.StatusUnprocessableEntity, "book_room.html", gin.H{
		"Title": "Apply", "Room": room, "Form": form, "Action": action, "Errors": errs,
	})
}

// SubmitApplicationHandler files a new application for the room in the form
func SubmitApplicationHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseUint(c.PostForm("room_id"), 10, 0)
		if err != nil || roomID == 0 {
			redirect(c, d, "/room_search", flash.Danger, "Room not found.")
			return
		}
		var form workflow.ApplicationForm
		_ = c.ShouldBind(&form)

		_, err = d.Workflow.Submit(c.Request.Context(), identity(c).UserID, uint(roomID), form)
		var verrs workflow.ValidationErrors
		switch {
		case err == nil:
			redirect(c, d, "/dashboard", flash.Success, "Application submitted successfully!")
		case errors.As(err, &verrs):
			bookForm(c, d, uint(roomID), "book", form, verrs)
		case errors.Is(err, ledger.ErrRoomNotFound):
			redirect(c, d, "/room_search", flash.Danger, "Room not found.")
		default:
			serverError(c, d, err)
		}
	}
}

// EditApplicationPageHandler renders the caller's application for a room
func EditApplicationPageHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := uintParam(c, "room_id")
		if !ok {
			redirect(c, d, "/dashboard", flash.Danger, "Application not found.")
			return
		}
		app, err := d.Workflow.FindForStudentRoom(c.Request.Context(), identity(c).UserID, roomID)
		if err != nil {
			if errors.Is(err, workflow.ErrApplicationNotFound) {
				redirect(c, d, "/dashboard", flash.Danger, "Application not found.")
				return
			}
			serverError(c, d, err)
			return
		}
		render(c, d, http.StatusOK, "book_room.html", gin.H{
			"Title": "Edit application", "Room": app.Room, "Form": workflow.FormFromApplication(*app),
			"Action": "edit", "Errors": workflow.ValidationErrors{},
		})
	}
}

// EditApplicationHandler overwrites the caller's application for a room
func EditApplicationHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := uintParam(c, "room_id")
		if !ok {
			redirect(c, d, "/dashboard", flash.Danger, "Application not found.")
			return
		}
		var form workflow.ApplicationForm
		_ = c.ShouldBind(&form)

		_, err := d.Workflow.Edit(c.Request.Context(), identity(c).UserID, roomID, form)
		var verrs workflow.ValidationErrors
		switch {
		case err == nil:
			redirect(c, d, "/view_booking", flash.Success, "Application updated successfully.")
		case errors.As(err, &verrs):
			bookForm(c, d, roomID, "edit", form, verrs)
		case errors.Is(err, workflow.ErrApplicationNotFound):
			redirect(c, d, "/dashboard", flash.Danger, "Application not found.")
		case errors.Is(err, workflow.ErrInvalidState):
			redirect(c, d, "/view_booking", flash.Warning, "This application can no longer be edited.")
		default:
			serverError(c, d, err)
		}
	}
}

// ViewBookingHandler lists the caller's applications with their rooms
func ViewBookingHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		apps, err := d.Workflow.ListForStudent(c.Request.Context(), identity(c).UserID, 0)
		if err != nil {
			serverError(c, d, err)
			return
		}
		render(c, d, http.StatusOK, "view_booking.html", gin.H{"Title": "My bookings", "Applications": apps})
	}
}

// TrackApplicationHandler shows each application's progress. ?room_id narrows to one room.
func TrackApplicationHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var roomID uint
		if v, err := strconv.ParseUint(c.Query("room_id"), 10, 0); err == nil {
			roomID = uint(v)
		}
		apps, err := d.Workflow.ListForStudent(c.Request.Context(), identity(c).UserID, roomID)
		if err != nil {
			serverError(c, d, err)
			return
		}
		render(c, d, http.StatusOK, "track_application.html", gin.H{"Title": "Track applications", "Applications": apps})
	}
}

// UploadReceiptPageHandler sends the browser to the tracker, which holds the upload forms
func UploadReceiptPageHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/track_application")
	}
}

// UploadReceiptHandler stores a payment receipt and moves the application to payment review
func UploadReceiptHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		appID, ok := uintParam(c, "application_id")
		if !ok {
			redirect(c, d, "/track_application", flash.Danger, "Application not found")
			return
		}
		header, err := c.FormFile("receipt")
		if err != nil {
			redirect(c, d, "/track_application", flash.Danger, "No file part")
			return
		}
		if header.Filename == "" {
			redirect(c, d, "/track_application", flash.Danger, "No selected file")
			return
		}
		file, err := header.Open()
		if err != nil {
			serverError(c, d, err)
			return
		}
		defer file.Close()

		app, _, err := d.Workflow.UploadReceipt(c.Request.Context(), identity(c).UserID, appID, header.Filename, file)
		switch {
		case err == nil:
			redirect(c, d, fmt.Sprintf("/track_application?room_id=%d", app.RoomIDValue()),
				fmt.Sprintf("%s_%d", flash.Success, app.ID), "Payment receipt uploaded successfully and is under review")
		case errors.Is(err, workflow.ErrUnsupportedReceipt):
			redirect(c, d, "/track_application", flash.Danger,
				fmt.Sprintf("Invalid file format for application %d. Only PDF, JPG, and PNG are allowed.", appID))
		case errors.Is(err, workflow.ErrApplicationNotFound):
			redirect(c, d, "/track_application", flash.Danger, "Application not found")
		case errors.Is(err, workflow.ErrNotOwner):
			redirect(c, d, "/dashboard", flash.Danger, "Unauthorized access")
		case errors.Is(err, workflow.ErrInvalidState):
			redirect(c, d, "/track_application", flash.Warning,
				fmt.Sprintf("Application %d no longer accepts payment receipts.", appID))
		default:
			serverError(c, d, err)
		}
	}
}
