package agent

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/actions"
	"hrdash/internal/domain/gate"
	"hrdash/internal/domain/profile"
	"hrdash/internal/domain/session"
	"hrdash/internal/platform/cache"
	"hrdash/internal/platform/config"
	"hrdash/internal/platform/crypto"
	"hrdash/internal/remote"
	"hrdash/internal/remote/httpapi"
	"hrdash/internal/remote/pgstore"
	actionshandler "hrdash/internal/transport/http/handlers/actions"
	profilehandler "hrdash/internal/transport/http/handlers/profile"
	sessionhandler "hrdash/internal/transport/http/handlers/session"
	"hrdash/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Router  http.Handler
	Manager *session.Manager
	close   func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	cryptoSvc, err := crypto.New(cfg.CacheEncryptionKey)
	if err != nil {
		return nil, err
	}
	device, err := cache.New(cfg.CacheDir, cryptoSvc)
	if err != nil {
		return nil, err
	}

	var manager *session.Manager
	tokenSource := func() string {
		if manager == nil {
			return ""
		}
		sess, ok := manager.Get()
		if !ok {
			return ""
		}
		return sess.Token
	}

	var verifier remote.CredentialVerifier
	var records remote.RecordStore
	closeFn := func() {}
	switch cfg.BackendMode {
	case config.BackendModePostgres:
		pool, err := pgstore.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		verifier = pgstore.NewVerifier(pool, cfg.SessionJWTSecret)
		records = pgstore.NewStore(pool)
		closeFn = pool.Close
	default:
		client := httpapi.NewClient(cfg.BackendURL, cfg.RemoteTimeout, tokenSource)
		verifier = client
		records = client
	}

	manager = session.NewManager(device, verifier, cfg.SessionJWTSecret)
	manager.Restore()

	completionGate := gate.New(manager, device)
	synchronizer := profile.NewSynchronizer(device, records)
	actionStore := actions.NewStore(device)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		sessionhandler.NewHandler(manager, completionGate).RegisterRoutes(r)
		profilehandler.NewHandler(manager, synchronizer).RegisterRoutes(r)
		actionshandler.NewHandler(actionStore).RegisterRoutes(r)
	})

	return &App{Config: cfg, Router: router, Manager: manager, close: closeFn}, nil
}

func (a *App) Close() {
	a.close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("agent startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("hrdash agent listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("agent failed: %v", err)
	}
}
