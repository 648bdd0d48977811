package main

import (
	"errors"
	"net/http"

	"spanco/internal/domain/users"
)

type RegisterUserPayload struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// UserWithToken is the body returned by register and login.
type UserWithToken struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// registerUserHandler godoc
//
//	@Summary		Registers a user
//	@Description	Creates an account and returns a bearer token for it
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterUserPayload	true	"User details"
//	@Success		201		{object}	UserWithToken
//	@Failure		400		{object}	messageEnvelope
//	@Failure		500		{object}	messageEnvelope
//	@Router			/auth/register [post]
func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &users.User{
		Name:  payload.Name,
		Email: users.NormalizeEmail(payload.Email),
	}
	// hash the user password.
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			app.conflictResponse(w, r, errors.New("User already exists"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, &UserWithToken{Token: token, User: user}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// loginHandler godoc
//
//	@Summary		Login
//	@Description	Exchanges email and password for a bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		LoginPayload	true	"User credentials"
//	@Success		200		{object}	UserWithToken
//	@Failure		400		{object}	messageEnvelope
//	@Failure		401		{object}	messageEnvelope
//	@Router			/auth/login [post]
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.users.GetByEmail(r.Context(), users.NormalizeEmail(payload.Email))
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			app.invalidCredentials(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := user.Password.Compare(payload.Password); err != nil {
		app.invalidCredentials(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, &UserWithToken{Token: token, User: user}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) invalidCredentials(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("login failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "Invalid email or password")
}

// profileHandler godoc
//
//	@Summary		Current user
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	users.User
//	@Failure		401	{object}	messageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/auth/profile [get]
func (app *application) profileHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := writeJSON(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}
