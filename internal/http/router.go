package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/mahalla/internal/application"
)

type RouterConfig struct {
	Auth      *AuthHandler
	Orders    *OrderHandler
	Profile   *ProfileHandler
	Dashboard *DashboardHandler
	Users     *UserHandler
	Reports   *ReportHandler
	// Sessions resolves the signed in user for every protected route.
	Sessions   SessionReader
	Logger     *slog.Logger
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireSession := RequireSession(cfg.Sessions, cfg.Logger)

	// guard wraps fn so it runs only for a session whose role may open area.
	guard := func(area application.Area, fn http.HandlerFunc) http.Handler {
		return requireSession(RequireArea(area, cfg.Logger)(fn))
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
		session := requireSession(http.HandlerFunc(cfg.Auth.Session))
		mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			session.ServeHTTP(w, r)
		})
	}

	if cfg.Orders != nil {
		list := guard(application.AreaOrders, cfg.Orders.List)
		create := guard(application.AreaOrders, cfg.Orders.Create)
		update := guard(application.AreaOrders, cfg.Orders.Update)
		closeOrder := guard(application.AreaOrders, cfg.Orders.Close)
		review := guard(application.AreaOrders, cfg.Orders.Review)

		mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list.ServeHTTP(w, r)
			case http.MethodPost:
				create.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(r.URL.Path, "/orders/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithOrderID(r.Context(), id))
			switch action {
			case "":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				update.ServeHTTP(w, r)
			case "close":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				closeOrder.ServeHTTP(w, r)
			case "review":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				review.ServeHTTP(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Profile != nil {
		get := guard(application.AreaProfile, cfg.Profile.Get)
		update := guard(application.AreaProfile, cfg.Profile.Update)
		mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				get.ServeHTTP(w, r)
			case http.MethodPut:
				update.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
	}

	if cfg.Dashboard != nil {
		list := guard(application.AreaDashboard, cfg.Dashboard.List)
		export := guard(application.AreaDashboard, cfg.Dashboard.Export)
		cancel := guard(application.AreaDashboard, cfg.Dashboard.Cancel)
		review := guard(application.AreaDashboard, cfg.Dashboard.Review)

		mux.HandleFunc("/dashboard/orders", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			list.ServeHTTP(w, r)
		})
		mux.HandleFunc("/dashboard/orders.csv", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			export.ServeHTTP(w, r)
		})
		mux.HandleFunc("/dashboard/orders/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(r.URL.Path, "/dashboard/orders/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithOrderID(r.Context(), id))
			switch action {
			case "cancel":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cancel.ServeHTTP(w, r)
			case "review":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				review.ServeHTTP(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Users != nil {
		list := guard(application.AreaUsers, cfg.Users.List)
		create := guard(application.AreaCreateUser, cfg.Users.Create)
		update := guard(application.AreaUsers, cfg.Users.Update)

		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list.ServeHTTP(w, r)
			case http.MethodPost:
				create.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(r.URL.Path, "/users/")
			if id == "" || action != "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			update.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), id)))
		})
	}

	if cfg.Reports != nil {
		reviews := guard(application.AreaReviews, cfg.Reports.Reviews)
		statistics := guard(application.AreaStatistics, cfg.Reports.Statistics)
		mux.HandleFunc("/reviews", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			reviews.ServeHTTP(w, r)
		})
		mux.HandleFunc("/statistics", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			statistics.ServeHTTP(w, r)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

// splitResourcePath returns the id and optional trailing action below prefix.
func splitResourcePath(path, prefix string) (id, action string) {
	rest := strings.TrimPrefix(path, prefix)
	id, action, _ = strings.Cut(rest, "/")
	return strings.TrimSpace(id), action
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
