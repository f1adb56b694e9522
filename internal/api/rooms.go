package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strconv"  // Student ID formatting
	"strings"  // Input trimming

	"dorm_booking/internal/flash"      // Redirect messages
	"dorm_booking/internal/ledger"     // Room inventory
	"dorm_booking/internal/middleware" // Current user
	"dorm_booking/internal/workflow"   // Application forms

	"github.com/gin-gonic/gin" // Gin web framework
)

// filter validates the form and turns it into a ledger filter
func (f RoomSearchForm) filter() (ledger.Filter, map[string]string) {
	errs := validateForm(f)
	lf := ledger.Filter{RoomType: strings.TrimSpace(f.RoomType), AvailableNow: f.Availability == "now"}
	if v, ok := parseID(errs, "dormitory", "Building", f.Dormitory, 0); ok {
		building := int(v)
		lf.Building = &building
	}
	if v, ok := parseID(errs, "level", "Floor", f.Level, 0); ok {
		floor := int(v)
		lf.Floor = &floor
	}
	return lf, errs
}

// RoomSearchHandler renders the search form and, on POST, the matching rooms
func RoomSearchHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := gin.H{"Title": "Find a room", "Form": RoomSearchForm{}, "Errors": map[string]string{}}
		if c.Request.Method != http.MethodPost {
			render(c, d, http.StatusOK, "room_search.html", data)
			return
		}
		var form RoomSearchForm
		_ = c.ShouldBind(&form)
		data["Form"] = form
		filter, errs := form.filter()
		if len(errs) > 0 {
			data["Errors"] = errs
			render(c, d, http.StatusUnprocessableEntity, "room_search.html", data)
			return
		}
		rooms, err := d.Ledger.Search(c.Request.Context(), filter)
		if err != nil {
			serverError(c, d, err)
			return
		}
		data["Rooms"], data["Searched"] = rooms, true
		render(c, d, http.StatusOK, "room_search.html", data)
	}
}

// BookRoomHandler renders the application form for a room. Action "book"
// pre-fills it from the account, "edit" from the existing application.
func BookRoomHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		roomID, ok := uintParam(c, "room_id")
		if !ok {
			redirect(c, d, "/room_search", flash.Danger, "Room not found.")
			return
		}
		room, err := d.Ledger.Get(ctx, roomID)
		if err != nil {
			if errors.Is(err, ledger.ErrRoomNotFound) {
				redirect(c, d, "/room_search", flash.Danger, "Room not found.")
				return
			}
			serverError(c, d, err)
			return
		}

		var form workflow.ApplicationForm
		switch action := c.Param("action"); action {
		case "book":
			user, _ := middleware.CurrentUser(c)
			form = workflow.ApplicationForm{
				StudentID: strconv.FormatInt(user.UserID, 10),
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Email:     user.Email,
				Telephone: user.Telephone,
			}
		case "edit":
			app, err := d.Workflow.FindForStudentRoom(ctx, identity(c).UserID, roomID)
			if err != nil {
				if errors.Is(err, workflow.ErrApplicationNotFound) {
					redirect(c, d, "/dashboard", flash.Danger, "Application not found.")
					return
				}
				serverError(c, d, err)
				return
			}
			form = workflow.FormFromApplication(*app)
		default:
			redirect(c, d, "/room_search", flash.Danger, "Unknown booking action.")
			return
		}
		render(c, d, http.StatusOK, "book_room.html", gin.H{
			"Title": "Apply", "Room": room, "Form": form, "Action": c.Param("action"),
			"Errors": workflow.ValidationErrors{},
		})
	}
}
