package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	json "github.com/goccy/go-json"

	"github.com/canvass-io/canvass/app"
	"github.com/canvass-io/canvass/httpx"
	"github.com/canvass-io/canvass/log"
	"github.com/canvass-io/canvass/model"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey := model.Survey{}
		err := render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := model.Validate(survey); err != nil {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "survey.validate", "%s", err)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		survey.ID = newID()
		now := time.Now()
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO survey (id, title, description, status, is_public, allow_anonymous, created_at, updated_at)
			VALUES (?, ?, ?, 'draft', ?, ?, ?, ?)`,
			survey.ID,
			survey.Title,
			survey.Description,
			survey.IsPublic,
			survey.AllowAnonymous,
			now,
			now,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey", err)
			return
		}

		if err := insertSurveyTree(r.Context(), tx, survey.ID, survey.Pages); err != nil {
			httpx.LogInternalError(w, "db.insert_survey.tree", err)
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.insert_survey.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": survey.ID,
		})
	}
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT s.id, s.version, s.title, s.description, s.status,
				(SELECT COUNT(*) FROM submission sub WHERE sub.survey_id = s.id)
			FROM survey s
			ORDER BY s.updated_at DESC`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}
		defer rows.Close()

		type surveyListItem struct {
			model.Survey
			Responses int `json:"responses"`
		}

		surveys := []surveyListItem{}
		for rows.Next() {
			item := surveyListItem{}
			err = rows.Scan(&item.ID, &item.Version, &item.Title, &item.Description, &item.Status, &item.Responses)
			if err != nil {
				httpx.LogInternalError(w, "db.get_surveys.scan", err)
				return
			}
			surveys = append(surveys, item)
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
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

		render.JSON(w, r, survey)
	}
}

func UpdateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		survey := model.Survey{}
		err := render.DecodeJSON(r.Body, &survey)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := model.Validate(survey); err != nil {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "survey.validate", "%s", err)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		// recreate the whole page/question tree
		_, err = tx.ExecContext(r.Context(), `
			DELETE FROM survey_page
			WHERE survey_id = ?`,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_survey.delete_tree", err)
			return
		}

		if err := insertSurveyTree(r.Context(), tx, surveyId, survey.Pages); err != nil {
			httpx.LogInternalError(w, "db.update_survey.tree", err)
			return
		}

		res, err := tx.ExecContext(r.Context(), `
			UPDATE survey
			SET
				title = ?,
				description = ?,
				is_public = ?,
				allow_anonymous = ?,
				updated_at = ?,
				version = version+1
			WHERE	id = ?
				AND version = ?`,
			survey.Title,
			survey.Description,
			survey.IsPublic,
			survey.AllowAnonymous,
			time.Now(),
			surveyId,
			survey.Version,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_survey", err)
			return
		}
		// optimistic lock
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_survey.verify", err)
			return
		}
		if n < 1 {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "db.update_survey.verify.conflict")
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.update_survey.commit", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		res, err := app.ExecContext(r.Context(), `
			DELETE FROM survey WHERE id = ?`,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_survey", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_survey.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_survey", surveyId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DuplicateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		survey, err := loadSurvey(r.Context(), app.DB, surveyId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "duplicate_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.duplicate_survey.load", err)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		// the copy always starts over as an unpublished draft
		copyId := newID()
		now := time.Now()
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO survey (id, title, description, status, is_public, allow_anonymous, created_at, updated_at)
			VALUES (?, ?, ?, 'draft', ?, ?, ?, ?)`,
			copyId,
			survey.Title+" (Copy)",
			survey.Description,
			survey.IsPublic,
			survey.AllowAnonymous,
			now,
			now,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.duplicate_survey", err)
			return
		}

		if err := insertSurveyTree(r.Context(), tx, copyId, duplicatePages(survey.Pages)); err != nil {
			httpx.LogInternalError(w, "db.duplicate_survey.tree", err)
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.duplicate_survey.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": copyId,
		})
	}
}

func setSurveyStatus(app app.App, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		res, err := app.ExecContext(r.Context(), `
			UPDATE survey
			SET status = ?, updated_at = ?
			WHERE id = ?`,
			status,
			time.Now(),
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.set_survey_status", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.set_survey_status.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "set_survey_status", surveyId)
			return
		}

		render.JSON(w, r, map[string]any{
			"id":     surveyId,
			"status": status,
		})
	}
}

func PublishSurvey(app app.App) http.HandlerFunc {
	return setSurveyStatus(app, "published")
}

func UnpublishSurvey(app app.App) http.HandlerFunc {
	return setSurveyStatus(app, "draft")
}

func GetSurveySubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		rows, err := app.QueryContext(r.Context(), `
			SELECT
				s.id, s.time, s.ip, s.total_questions, s.answered_questions,
				a.question_id, a.question_name, a.question_title, a.question_type, a.value
			FROM submission s
			LEFT OUTER JOIN submission_answer a ON (a.submission_id = s.id)
			WHERE s.survey_id = ?
			ORDER BY s.time, a.rowid`,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}
		defer rows.Close()

		type submissionAnswer struct {
			QuestionID    string `json:"questionId"`
			QuestionName  string `json:"questionName"`
			QuestionTitle string `json:"questionTitle"`
			QuestionType  string `json:"questionType"`
			Answer        any    `json:"answer"`
		}
		type submissionItem struct {
			ID                string             `json:"id"`
			Time              time.Time          `json:"time"`
			IP                string             `json:"ip"`
			TotalQuestions    int                `json:"totalQuestions"`
			AnsweredQuestions int                `json:"answeredQuestions"`
			Answers           []submissionAnswer `json:"answers"`
		}

		submissions := []submissionItem{}
		for rows.Next() {
			item := submissionItem{}
			var questionID, questionName, questionTitle, questionType, value sql.NullString
			err = rows.Scan(
				&item.ID, &item.Time, &item.IP, &item.TotalQuestions, &item.AnsweredQuestions,
				&questionID, &questionName, &questionTitle, &questionType, &value,
			)
			if err != nil {
				httpx.LogInternalError(w, "db.get_submissions.scan", err)
				return
			}

			lastIdx := len(submissions) - 1
			if lastIdx < 0 || submissions[lastIdx].ID != item.ID {
				item.Answers = []submissionAnswer{}
				submissions = append(submissions, item)
				lastIdx++
			}

			if !questionID.Valid {
				continue
			}
			answer := submissionAnswer{
				QuestionID:    questionID.String,
				QuestionName:  questionName.String,
				QuestionTitle: questionTitle.String,
				QuestionType:  questionType.String,
			}
			if value.Valid && value.String != "" {
				if err := json.Unmarshal([]byte(value.String), &answer.Answer); err != nil {
					httpx.LogInternalError(w, "db.get_submissions.parse_value", err)
					return
				}
			}
			submissions[lastIdx].Answers = append(submissions[lastIdx].Answers, answer)
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}

func GetSurveySubmissionStats(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId := chi.URLParam(r, "id")

		var exists bool
		err := app.QueryRowContext(r.Context(), `
			SELECT EXISTS (SELECT 1 FROM survey WHERE id = ?)`,
			surveyId,
		).Scan(&exists)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submission_stats", err)
			return
		}
		if !exists {
			httpx.LogNotFound(w, "get_submission_stats", surveyId)
			return
		}

		var total int
		var completion sql.NullFloat64
		err = app.QueryRowContext(r.Context(), `
			SELECT
				COUNT(*),
				AVG(CASE WHEN total_questions > 0 THEN answered_questions * 1.0 / total_questions END)
			FROM submission
			WHERE survey_id = ?`,
			surveyId,
		).Scan(&total, &completion)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submission_stats", err)
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT a.question_id, a.question_title, COUNT(*)
			FROM submission s
			JOIN submission_answer a ON (a.submission_id = s.id)
			WHERE s.survey_id = ?
			GROUP BY a.question_id, a.question_title
			ORDER BY MIN(a.rowid)`,
			surveyId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submission_stats.questions", err)
			return
		}
		defer rows.Close()

		type questionStats struct {
			QuestionID    string `json:"questionId"`
			QuestionTitle string `json:"questionTitle"`
			Answers       int    `json:"answers"`
		}

		questions := []questionStats{}
		for rows.Next() {
			item := questionStats{}
			if err := rows.Scan(&item.QuestionID, &item.QuestionTitle, &item.Answers); err != nil {
				httpx.LogInternalError(w, "db.get_submission_stats.scan", err)
				return
			}
			questions = append(questions, item)
		}
		if err := rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_submission_stats.rows", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveyId":          surveyId,
			"totalResponses":    total,
			"averageCompletion": completion.Float64,
			"questions":         questions,
		})
	}
}
