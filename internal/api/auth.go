package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strconv"  // ID parsing
	"strings"  // Input trimming

	"dorm_booking/internal/domain"     // Importing domain models
	"dorm_booking/internal/flash"      // Redirect messages
	"dorm_booking/internal/middleware" // Session cookie and identity
	"dorm_booking/internal/utils"      // JWT and revocation helpers
	"dorm_booking/internal/workflow"   // Dashboard listings

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// LoginRequest is the login form
type LoginRequest struct {
	UserID   string `form:"user_id"`  // Student or staff ID
	Password string `form:"password"` // Plain password
}

const msgInvalidLogin = "Invalid student ID or password."

// IndexHandler renders the landing page
func IndexHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, d, http.StatusOK, "index.html", nil)
	}
}

// LoginPageHandler renders the login form
func LoginPageHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, d, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
	}
}

// LoginHandler checks the credentials and issues the session cookie
func LoginHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		_ = c.ShouldBind(&req) // Missing fields fail the lookup below
		fail := func() {
			render(c, d, http.StatusUnauthorized, "login.html", gin.H{"Title": "Log in", "UserID": req.UserID},
				flash.Message{Category: flash.Danger, Text: msgInvalidLogin})
		}
		userID, err := strconv.ParseInt(strings.TrimSpace(req.UserID), 10, 64)
		if err != nil {
			fail()
			return
		}
		var user domain.User // Fetch user from database
		if err := d.DB.WithContext(c.Request.Context()).Where("user_id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail()
				return
			}
			serverError(c, d, err)
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			logrus.WithField("user_id", userID).Info("Login rejected")
			fail()
			return
		}
		token, err := utils.GenerateJWT(user.UserID, user.Role, d.JWTSecret, d.SessionTTL)
		if err != nil {
			serverError(c, d, err)
			return
		}
		c.SetCookie(middleware.SessionCookie, token, int(d.SessionTTL.Seconds()), "/", "", d.SecureCookies, true)
		logrus.WithFields(logrus.Fields{"user_id": user.UserID, "role": user.Role}).Info("User logged in")
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

// LogoutHandler revokes the session token and clears the cookie
func LogoutHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := middleware.CurrentIdentity(c); ok {
			if err := utils.RevokeToken(c.Request.Context(), d.Redis, id.TokenID, id.ExpiresAt); err != nil {
				logrus.WithError(err).Warn("Failed to revoke session token") // The cookie is still cleared
			}
			logrus.WithField("user_id", id.UserID).Info("User logged out")
		}
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", d.SecureCookies, true)
		redirect(c, d, "/login", flash.Info, "You have been logged out.")
	}
}

// CreateAccountPageHandler renders the sign-up form, or the staff form when staff is set
func CreateAccountPageHandler(d *Deps, staff bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := AccountForm{}
		if staff {
			form.Role = string(domain.RoleAdmin)
		}
		render(c, d, http.StatusOK, "create_account.html", gin.H{
			"Title": "Create account", "Staff": staff, "Form": form, "Errors": map[string]string{},
		})
	}
}

// CreateAccountHandler registers a student account, or a staff account when staff is set
func CreateAccountHandler(d *Deps, staff bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var form AccountForm
		_ = c.ShouldBind(&form)
		form.Email = strings.TrimSpace(form.Email)

		errs := validateForm(form)
		role := domain.RoleStudent
		if staff {
			r, ok := domain.ParseRole(form.Role)
			if !ok || !r.IsStaff() {
				errs["role"] = "Role must be Admin or IT."
			}
			role = r
		}
		userID, ok := parseID(errs, "user_id", "ID number", form.UserID, 64)
		if ok {
			taken, err := exists(d.DB.WithContext(ctx), "user_id = ?", userID)
			if err != nil {
				serverError(c, d, err)
				return
			}
			if taken {
				errs["user_id"] = "Student ID is already registered"
			}
		}
		if _, bad := errs["email"]; !bad {
			taken, err := exists(d.DB.WithContext(ctx), "email = ?", form.Email)
			if err != nil {
				serverError(c, d, err)
				return
			}
			if taken {
				errs["email"] = "Email is already registered"
			}
		}
		if len(errs) > 0 {
			render(c, d, http.StatusUnprocessableEntity, "create_account.html", gin.H{
				"Title": "Create account", "Staff": staff, "Form": form, "Errors": errs,
			})
			return
		}

		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			serverError(c, d, err)
			return
		}
		user := domain.User{
			UserID:    userID,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
			Role:      role,
			Password:  string(hash),
		}
		if err := d.DB.WithContext(ctx).Create(&user).Error; err != nil {
			serverError(c, d, err)
			return
		}
		entry := logrus.WithFields(logrus.Fields{"user_id": user.UserID, "role": user.Role})
		if staff {
			creator, _ := middleware.CurrentUser(c)
			entry.WithField("created_by", creator.UserID).Info("Staff account created")
			redirect(c, d, "/dashboard", flash.Success, "Account created successfully!")
			return
		}
		entry.Info("Student account created")
		redirect(c, d, "/login", flash.Success, "Account created successfully!")
	}
}

func exists(db *gorm.DB, query string, arg any) (bool, error) {
	var count int64
	if err := db.Model(&domain.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ForgotPasswordHandler renders the password help page. Resets go through the housing office.
func ForgotPasswordHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, d, http.StatusOK, "forgot_password.html", gin.H{"Title": "Forgot password"})
	}
}

// DashboardHandler shows students their rooms and staff the pending queue
func DashboardHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity(c)
		ctx := c.Request.Context()
		staff := id.Role.IsStaff()
		var (
			apps []domain.Application
			err  error
		)
		if staff {
			apps, err = d.Workflow.Search(ctx, workflow.Criteria{Status: domain.StatusPending})
		} else {
			apps, err = d.Workflow.ListForStudent(ctx, id.UserID, 0)
		}
		if err != nil {
			serverError(c, d, err)
			return
		}
		render(c, d, http.StatusOK, "dashboard.html", gin.H{
			"Title": "Dashboard", "Staff": staff, "Applications": apps,
		})
	}
}
