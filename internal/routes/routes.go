package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nexcard/backend/internal/handlers"
)

// Deps carries everything the router mounts. Auth is the token-verifying
// middleware (Firebase or JWT depending on deployment). AuthHandler is nil
// unless the server runs in jwt auth mode.
type Deps struct {
	Auth           func(http.Handler) http.Handler
	AllowedOrigins []string

	Cards         *handlers.CardHandler
	Scanned       *handlers.ScannedHandler
	Subscriptions *handlers.SubscriptionHandler
	Profiles      *handlers.ProfileHandler
	VCards        *handlers.VCardHandler
	AuthHandler   *handlers.AuthHandler
}

func New(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public surface: vCard downloads and dev-auth login.
		r.Get("/vcard", d.VCards.DownloadVCard)

		if d.AuthHandler != nil {
			r.Post("/auth/register", d.AuthHandler.Register)
			r.Post("/auth/login", d.AuthHandler.Login)
		}

		r.Route("/cards", func(r chi.Router) {
			// Public card fetch by link; everything else needs auth.
			r.Get("/public/*", d.Cards.GetPublicCard)

			r.Group(func(r chi.Router) {
				r.Use(d.Auth)

				r.Post("/", d.Cards.CreateCard)
				r.Get("/me", d.Cards.GetMyCards)

				r.Route("/{cardId}", func(r chi.Router) {
					r.Get("/", d.Cards.GetCard)
					r.Put("/", d.Cards.UpdateCard)
					r.Delete("/", d.Cards.DeleteCard)
				})
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(d.Auth)

			r.Route("/recently-scanned", func(r chi.Router) {
				r.Post("/", d.Scanned.SaveScannedCard)
				r.Get("/me", d.Scanned.GetMyScannedCards)
				r.Delete("/me/*", d.Scanned.DeleteScannedCard)
			})

			r.Route("/subscription", func(r chi.Router) {
				r.Get("/", d.Subscriptions.GetSubscription)
				r.Post("/select", d.Subscriptions.SelectPlan)
				r.Post("/confirm-payment", d.Subscriptions.ConfirmPayment)
			})

			r.Post("/users", d.Profiles.UpsertProfile)
			r.Get("/users/me", d.Profiles.GetProfile)
		})
	})

	return r
}
