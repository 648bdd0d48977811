package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spanco/docs" //this is required to generate swagger docs
	"spanco/internal/auth"
	"spanco/internal/domain/catalog"
	"spanco/internal/domain/users"
	"spanco/internal/metrics"
	"spanco/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	catalog       *catalog.Service
	users         users.Store
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	metrics       *metrics.HTTP
}

type config struct {
	addr        string
	env         string
	apiURL      string
	logLevel    string
	db          dbConfig
	assets      assetsConfig
	cache       cacheConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	driver        string
	mongoURI      string
	mongoDatabase string
	addr          string
	maxOpenConns  int
	maxIdleTime   string
}

type assetsConfig struct {
	driver        string
	cloudinaryURL string
	s3Bucket      string
	s3Region      string
	s3Endpoint    string
	s3PublicURL   string
	s3AccessKey   string
	s3SecretKey   string
}

type cacheConfig struct {
	redisAddr     string
	redisPassword string
	redisDB       int
	ttl           time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.NotFound(app.routeNotFoundHandler)
	r.MethodNotAllowed(app.routeNotFoundHandler)

	r.Get("/", app.rootHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/api/swagger/doc.json", app.config.apiURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)
		if app.metrics != nil {
			r.With(app.BasicAuthMiddleware()).Get("/metrics", app.metrics.Handler().ServeHTTP)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.registerUserHandler)
			r.Post("/login", app.loginHandler)
			r.With(app.AuthTokenMiddleware).Get("/profile", app.profileHandler)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategoriesHandler)
			r.Get("/{id}", app.getCategoryHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createCategoryHandler)
				r.Put("/{id}", app.updateCategoryHandler)
				r.Delete("/{id}", app.deleteCategoryHandler)
			})
		})

		r.Route("/subcategories", func(r chi.Router) {
			r.Get("/", app.listSubcategoriesHandler)
			r.Get("/category/{categoryID}", app.listSubcategoriesByCategoryHandler)
			r.Get("/{id}", app.getSubcategoryHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createSubcategoryHandler)
				r.Put("/{id}", app.updateSubcategoryHandler)
				r.Delete("/{id}", app.deleteSubcategoryHandler)
			})
		})

		r.Route("/labcategories", func(r chi.Router) {
			r.Get("/", app.listLabCategoriesHandler)
			r.Get("/subcategory/{subcategoryID}", app.listLabCategoriesBySubcategoryHandler)
			r.Get("/{id}", app.getLabCategoryHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createLabCategoryHandler)
				r.Put("/{id}", app.updateLabCategoryHandler)
				r.Delete("/{id}", app.deleteLabCategoryHandler)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", app.listProductsHandler)
			r.Get("/category/{categoryID}", app.listProductsByCategoryHandler)
			r.Get("/subcategory/{subCategoryID}", app.listProductsBySubcategoryHandler)
			r.Get("/labcategory/{labCategoryID}", app.listProductsByLabCategoryHandler)
			r.Get("/id/{id}", app.getProductHandler)
			r.Get("/pcode/{pcode}", app.getProductByPCodeHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/", app.createProductHandler)
				r.Put("/{id}", app.updateProductHandler)
				r.Delete("/{id}", app.deleteProductHandler)
			})
		})
	})

	return r
}

func (app *application) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &messageEnvelope{Message: "Backend server is running!"})
}

func (app *application) routeNotFoundHandler(w http.ResponseWriter, r *http.Request) {
	app.notFoundResponse(w, r, errors.New("Route not found"))
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
