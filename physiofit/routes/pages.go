package routes

import (
	"net/http"

	"physiofit/physiofit/controllers"
	"physiofit/physiofit/middlewares"
	"physiofit/physiofit/services/identity"
	"physiofit/physiofit/utils/logging"
	"physiofit/physiofit/views"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PageDeps struct {
	Auth         *controllers.AuthController
	Pain         *controllers.PainController
	Views        *views.Renderer
	CookieSecure bool
	LoginPath    string
}

func PageRoutes(d PageDeps) chi.Router {
	r := chi.NewRouter()

	render := func(w http.ResponseWriter, r *http.Request, status int, name string, data views.PageData) {
		if err := d.Views.Render(w, status, name, data); err != nil {
			logging.ErrorLogger.Error("render failed",
				zap.String("page", name),
				zap.String("request_id", logging.RequestID(r.Context())),
				zap.Error(err))
			http.Error(w, controllers.InternalServerError, http.StatusInternalServerError)
		}
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, "index", views.PageData{User: middlewares.UserFromContext(r.Context())})
	})

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, "login", views.PageData{
			Title:    "Login",
			Redirect: r.URL.Query().Get("redirect"),
		})
	})

	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, msgInvalidInput, http.StatusBadRequest)
			return
		}
		email, redirect := r.PostForm.Get("email"), r.PostForm.Get("redirect")
		session, err := d.Auth.Login(r.Context(), email, r.PostForm.Get("password"))
		if err != nil {
			render(w, r, http.StatusUnauthorized, "login", views.PageData{
				Title: "Login", Error: err.Error(), Email: email, Redirect: redirect,
			})
			return
		}
		identity.SetCookies(w, session.Cookies(d.CookieSecure))
		http.Redirect(w, r, controllers.SafeRedirect(redirect), http.StatusSeeOther)
	})

	r.Get("/signup", func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, "signup", views.PageData{Title: "Registrieren"})
	})

	r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, msgInvalidInput, http.StatusBadRequest)
			return
		}
		email := r.PostForm.Get("email")
		session, err := d.Auth.Signup(r.Context(), email,
			r.PostForm.Get("password"), r.PostForm.Get("confirm_password"),
			origin(r)+d.LoginPath)
		if err != nil {
			render(w, r, http.StatusBadRequest, "signup", views.PageData{
				Title: "Registrieren", Error: err.Error(), Email: email,
			})
			return
		}
		if session == nil {
			render(w, r, http.StatusOK, "signup_done", views.PageData{Title: "Fast geschafft"})
			return
		}
		identity.SetCookies(w, session.Cookies(d.CookieSecure))
		http.Redirect(w, r, controllers.DefaultAfterLogin, http.StatusSeeOther)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		d.Auth.Logout(r.Context(), identity.FromRequest(r).AccessToken)
		identity.SetCookies(w, identity.ClearCookies(d.CookieSecure))
		http.Redirect(w, r, d.LoginPath, http.StatusSeeOther)
	})

	// The gate already guards /dashboard; the page checks again on its own.
	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, d.LoginPath, http.StatusFound)
			return
		}
		render(w, r, http.StatusOK, "dashboard", views.PageData{
			Title: "Dashboard", User: user, BodyParts: d.Pain.BodyParts(),
		})
	})

	r.Get("/chatbot", func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, "chatbot", views.PageData{
			Title:     "Coach",
			User:      middlewares.UserFromContext(r.Context()),
			BodyParts: d.Pain.BodyParts(),
		})
	})

	return r
}

func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
