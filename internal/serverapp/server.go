package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/cors"

	"tasktrove/internal/analytics"
	"tasktrove/internal/auth"
	"tasktrove/internal/config"
	"tasktrove/internal/focus"
	"tasktrove/internal/httpmw"
	"tasktrove/internal/label"
	"tasktrove/internal/model"
	"tasktrove/internal/project"
	"tasktrove/internal/task"
	staticfiles "tasktrove/static"
)

type Options struct {
	Config        *config.Config
	DataDir       string
	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger
}

// sectionMover keeps task records in line with the ordered section
// lists when a drop crosses sections.
type sectionMover struct {
	repo task.Repo
}

func (m sectionMover) SetTaskSection(taskID model.TaskID, projectID model.ProjectID, sectionID model.SectionID) error {
	_, err := m.repo.Update(taskID, task.Patch{ProjectID: &projectID, SectionID: &sectionID})
	return err
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := opts.Config
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = cfg.Server.DataDir
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(staticfiles.IndexHTML())
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "tasktrove",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	authRepo, err := auth.NewFileRepo(filepath.Join(opts.DataDir, "auth"))
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(authRepo, []byte(cfg.Auth.JWTSecret), opts.Logger)
	logSecurityHints(opts.Logger, cfg)

	// With auth off everything runs as the "default" user and the
	// session endpoints stay unregistered.
	requireAPI := func(h http.Handler) http.Handler { return h }
	if cfg.Auth.Enabled {
		requireAPI = authService.RequireAPI
		authHandler := auth.NewHandler(authService)
		mux.HandleFunc("/api/auth/request-otp", authHandler.RequestOTP)
		mux.HandleFunc("/api/auth/verify-otp", authHandler.VerifyOTP)
		mux.HandleFunc("/api/auth/session", authHandler.Session)
		mux.HandleFunc("/api/auth/logout", authHandler.Logout)
	}

	userID := func(r *http.Request) string {
		if u, ok := auth.UserFromContext(r.Context()); ok {
			return u.ID
		}
		return "default"
	}

	taskRepoForUser, err := buildTaskStore(cfg, opts.DataDir)
	if err != nil {
		return nil, err
	}
	taskRepoFor := func(r *http.Request) task.Repo {
		return taskRepoForUser(userID(r))
	}

	projectRepo, err := project.NewFileRepo(filepath.Join(opts.DataDir, "projects"))
	if err != nil {
		return nil, err
	}
	projectRepoFor := func(r *http.Request) project.Repo {
		return projectRepo.ForUser(userID(r))
	}

	labelRepo, err := label.NewFileRepo(filepath.Join(opts.DataDir, "labels"))
	if err != nil {
		return nil, err
	}
	labelRepoFor := func(r *http.Request) label.Repo {
		return labelRepo.ForUser(userID(r))
	}

	eventRepo, err := analytics.NewFileRepo(filepath.Join(opts.DataDir, "analytics"))
	if err != nil {
		return nil, err
	}
	eventRepoFor := func(r *http.Request) analytics.Repository {
		return eventRepo.ForUser(userID(r))
	}

	taskHandler := task.NewHandler(taskRepoForUser("default"))
	taskHandler.SetRepoResolver(taskRepoFor)
	taskHandler.SetProjectResolver(projectRepoFor)
	taskHandler.SetLabelResolver(labelRepoFor)
	taskHandler.SetEventResolver(eventRepoFor)
	mux.Handle("/api/tasks", requireAPI(http.HandlerFunc(taskHandler.TasksRoot)))
	mux.Handle("/api/tasks/", requireAPI(http.HandlerFunc(taskHandler.TasksSub)))
	mux.Handle("/api/calendar.ics", requireAPI(http.HandlerFunc(taskHandler.Calendar)))

	projectHandler := project.NewHandler(projectRepo)
	projectHandler.SetRepoResolver(projectRepoFor)
	projectHandler.SetMoverResolver(func(r *http.Request) project.TaskMover {
		return sectionMover{repo: taskRepoFor(r)}
	})
	projectHandler.SetEventResolver(eventRepoFor)
	mux.Handle("/api/projects", requireAPI(http.HandlerFunc(projectHandler.ProjectsRoot)))
	mux.Handle("/api/projects/", requireAPI(http.HandlerFunc(projectHandler.ProjectsSub)))
	mux.Handle("/api/sections/", requireAPI(http.HandlerFunc(projectHandler.SectionsSub)))

	labelHandler := label.NewHandler(labelRepo)
	labelHandler.SetRepoResolver(labelRepoFor)
	mux.Handle("/api/labels", requireAPI(http.HandlerFunc(labelHandler.LabelsRoot)))
	mux.Handle("/api/labels/", requireAPI(http.HandlerFunc(labelHandler.LabelsSub)))

	analyticsHandler := analytics.NewHandler(eventRepo)
	analyticsHandler.SetRepoResolver(eventRepoFor)
	mux.Handle("/api/analytics/stats", requireAPI(http.HandlerFunc(analyticsHandler.Stats)))

	tracker := focus.NewTracker()
	tracker.SetDefaultMinutes(cfg.Focus.DefaultMinutes)
	focusHandler := focus.NewHandler(tracker)
	focusHandler.SetUserResolver(userID)
	focusHandler.SetEventResolver(eventRepoFor)
	mux.Handle("/api/focus", requireAPI(http.HandlerFunc(focusHandler.Current)))
	mux.Handle("/api/focus/start", requireAPI(http.HandlerFunc(focusHandler.Start)))
	mux.Handle("/api/focus/stop", requireAPI(http.HandlerFunc(focusHandler.Stop)))
	mux.Handle("/api/focus/cancel", requireAPI(http.HandlerFunc(focusHandler.Cancel)))

	mux.Handle("/api/config", requireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})))

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := taskRepoForUser("default").List(task.ListFilter{Status: "all"}); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "tasktrove",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	var handler http.Handler = mux
	if len(cfg.Server.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	return httpmw.Chain(
		handler,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithMaxBody(cfg.Server.MaxBodyBytes),
	), nil
}

// buildTaskStore picks the task backend. The returned function scopes
// the shared store to one user.
func buildTaskStore(cfg *config.Config, dataDir string) (func(userID string) task.Repo, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		repo, err := task.OpenSQL("sqlite", cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return func(userID string) task.Repo { return repo.ForUser(userID) }, nil
	case "postgres":
		repo, err := task.OpenSQL("postgres", cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		return func(userID string) task.Repo { return repo.ForUser(userID) }, nil
	default:
		repo, err := task.NewFileRepo(filepath.Join(dataDir, "tasks"))
		if err != nil {
			return nil, err
		}
		return func(userID string) task.Repo { return repo.ForUser(userID) }, nil
	}
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKTROVE_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logSecurityHints(logger *log.Logger, cfg *config.Config) {
	if logger == nil {
		return
	}
	env := strings.ToLower(strings.TrimSpace(os.Getenv("TASKTROVE_ENV")))
	cookieSecure := strings.ToLower(strings.TrimSpace(os.Getenv("TASKTROVE_COOKIE_SECURE")))

	if env == "production" || env == "prod" {
		if !cfg.Auth.Enabled {
			logger.Printf("[security] TASKTROVE_ENV=%s with auth disabled", env)
		}
		if cookieSecure != "1" && cookieSecure != "true" && cookieSecure != "yes" {
			logger.Printf("[security] TASKTROVE_ENV=%s but TASKTROVE_COOKIE_SECURE is not explicitly true", env)
		}
	}
}
