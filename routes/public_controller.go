package routes

import (
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	json "github.com/goccy/go-json"

	"github.com/canvass-io/canvass/app"
	"github.com/canvass-io/canvass/engine"
	"github.com/canvass-io/canvass/httpx"
	"github.com/canvass-io/canvass/log"
)

func PublicGetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		survey, err := loadSurvey(r.Context(), app.DB, surveyId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}
		if survey.Status != "published" {
			httpx.LogNotFound(w, "get_survey.unpublished", surveyId)
			return
		}

		var alreadySubmitted bool
		err = app.QueryRowContext(r.Context(), `
			SELECT 1 FROM submission
			WHERE survey_id = ?
				AND ip = ?`,
			surveyId,
			remoteIP(r),
		).Scan(&alreadySubmitted)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			httpx.LogInternalError(w, "db.get_survey.ip", err)
			return
		}
		if alreadySubmitted {
			survey.Submitted = true
			survey.Pages = nil
		}

		render.JSON(w, r, survey)
	}
}

// submitRequest is the viewer's submission payload: the raw formData
// snapshot keyed by question id.
type submitRequest struct {
	FormData map[string]json.RawMessage `json:"formData"`
}

type ipCheck struct {
	op     bool
	ip     string
	result chan<- bool
}

func PublicSubmitSurvey(app app.App) http.HandlerFunc {
	// Serializes concurrent submissions per IP without holding a lock
	// across the database round trips.
	ipGuard := make(chan ipCheck)
	go func() {
		inFlight := map[string]bool{}
		for req := range ipGuard {
			if req.op {
				req.result <- inFlight[req.ip]
				inFlight[req.ip] = true
			} else {
				delete(inFlight, req.ip)
			}
		}
	}()

	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		req := submitRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		values, err := engine.DecodeValues(req.FormData)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.parse_answers", "%s", err)
			return
		}

		survey, err := loadSurvey(r.Context(), app.DB, surveyId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}
		if survey.Status != "published" {
			httpx.LogNotFound(w, "get_survey.unpublished", surveyId)
			return
		}

		// Run the runtime checks the viewer already ran, server side:
		// hidden questions are skipped, required visible ones must be
		// answered.
		store := engine.NewStore(survey, values)
		if errs := engine.ValidateAll(survey, store); len(errs) > 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, map[string]any{
				"errors": errs,
			})
			return
		}

		ip := remoteIP(r)
		inFlight := make(chan bool)
		ipGuard <- ipCheck{true, ip, inFlight}
		if <-inFlight {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "ip.already_submitting")
			return
		}
		defer func() { ipGuard <- ipCheck{false, ip, nil} }()

		var alreadySubmitted bool
		err = app.QueryRowContext(r.Context(), `
			SELECT 1 FROM submission
			WHERE survey_id = ?
				AND ip = ?`,
			surveyId,
			ip,
		).Scan(&alreadySubmitted)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			httpx.LogInternalError(w, "db.get_ip.scan", err)
			return
		}
		if alreadySubmitted {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "ip.already_submitted")
			return
		}

		record := engine.Normalize(survey, store, time.Now())

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		submissionId := newID()
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO submission (id, survey_id, time, ip, total_questions, answered_questions)
			VALUES (?, ?, ?, ?, ?, ?)`,
			submissionId,
			surveyId,
			time.Now(),
			ip,
			record.TotalQuestions,
			record.AnsweredQuestions,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_submission", err)
			return
		}

		stmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO submission_answer (submission_id, question_id, question_name, question_title, question_type, value, answered)
			VALUES (?, ?, ?, ?, ?, ?, 1)`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_submission.answers.prepare", err)
			return
		}
		defer stmt.Close()

		for _, a := range record.Answers {
			valueJson, err := json.Marshal(a.Answer)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_submission.answers.encode", err)
				return
			}
			_, err = stmt.ExecContext(r.Context(),
				submissionId,
				a.QuestionID, a.QuestionName, a.QuestionTitle, a.QuestionType,
				string(valueJson),
			)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_submission.answers.insert", err)
				return
			}
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.insert_submission.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":                submissionId,
			"submittedAt":       record.SubmittedAt,
			"totalQuestions":    record.TotalQuestions,
			"answeredQuestions": record.AnsweredQuestions,
		})
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
