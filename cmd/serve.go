package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JoePa99/segmentclaude/internal/model"
	"github.com/JoePa99/segmentclaude/internal/pipeline"
	"github.com/JoePa99/segmentclaude/internal/store"
)

// maxUploadBytes bounds a single multipart upload request.
const maxUploadBytes = 32 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *appEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Post("/", handleCreateProject(env))
		r.Get("/", handleListProjects(env))

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", handleGetProject(env))
			r.Delete("/", handleDeleteProject(env))
			r.Post("/documents", handleUploadDocuments(env))
			r.Get("/documents", handleListDocuments(env))
			r.Post("/segmentation", handleGenerateSegmentation(env))
			r.Get("/segmentation", handleGetSegmentation(env))
			r.Post("/focus-groups", handleGenerateFocusGroup(env))
			r.Get("/focus-groups", handleListFocusGroups(env))
			r.Get("/report", handleReport(env))
		})
	})

	return r
}

func handleCreateProject(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			model.BusinessContext
			Provider string `json:"provider"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.Weights == (model.Weights{}) {
			req.Weights = model.DefaultWeights()
		}

		project, err := env.Store.CreateProject(r.Context(), req.BusinessContext, req.Provider)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, project)
	}
}

func handleListProjects(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := env.Store.ListProjects(r.Context(), store.ProjectFilter{})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, projects)
	}
}

func handleGetProject(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := env.Store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, project)
	}
}

func handleDeleteProject(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := env.Store.DeleteProject(r.Context(), chi.URLParam(r, "projectID")); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUploadDocuments(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		var files []pipeline.FileUpload
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("open %s: %v", header.Filename, err))
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("read %s: %v", header.Filename, err))
				return
			}
			files = append(files, pipeline.FileUpload{
				FileName: header.Filename,
				MimeType: header.Header.Get("Content-Type"),
				Data:     data,
			})
		}
		if len(files) == 0 {
			writeError(w, http.StatusBadRequest, "no files provided")
			return
		}

		docs, err := env.Generator.UploadAll(r.Context(), chi.URLParam(r, "projectID"), files)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, docs)
	}
}

func handleListDocuments(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := env.Store.ListDocuments(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

func handleGenerateSegmentation(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Provider string `json:"provider"`
			Model    string `json:"model"`
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		projectID := chi.URLParam(r, "projectID")
		if _, err := env.Store.GetProject(r.Context(), projectID); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		// Generation runs past the request lifetime; poll the project
		// status and GET the segmentation when completed.
		go func() {
			_, err := env.Generator.GenerateSegmentation(context.Background(), projectID, pipeline.Options{
				Provider: req.Provider,
				Model:    req.Model,
			})
			if err != nil {
				zap.L().Error("segmentation generation failed",
					zap.String("project_id", projectID),
					zap.Error(err),
				)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":     "accepted",
			"project_id": projectID,
		})
	}
}

func handleGetSegmentation(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := env.Store.LatestSegmentation(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleGenerateFocusGroup(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SegmentationID string `json:"segmentation_id"`
			SegmentName    string `json:"segment_name"`
			Question       string `json:"question"`
			Provider       string `json:"provider"`
			Model          string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.SegmentName == "" {
			writeError(w, http.StatusBadRequest, "segment_name is required")
			return
		}

		fg, err := env.Generator.GenerateFocusGroup(r.Context(),
			chi.URLParam(r, "projectID"), req.SegmentationID, req.SegmentName, req.Question,
			pipeline.Options{Provider: req.Provider, Model: req.Model},
		)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, fg)
	}
}

func handleListFocusGroups(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := env.Store.ListFocusGroups(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

func handleReport(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		project, err := env.Store.GetProject(r.Context(), projectID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		result, err := env.Store.LatestSegmentation(r.Context(), projectID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		groups, err := env.Store.ListFocusGroups(r.Context(), projectID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, pipeline.FormatReport(project, result, groups))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
