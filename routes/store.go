package routes

import (
	"context"
	"database/sql"

	json "github.com/goccy/go-json"
	"github.com/gofrs/uuid"

	"github.com/canvass-io/canvass/model"
)

// queryer covers both *sql.DB and *sql.Tx, so document loading works
// inside and outside a transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// loadSurvey reassembles a survey document from its rows. Questions
// are stored as one JSON definition per row, so the nested shapes
// (options, matrix rows/columns, conditional logic, styling) survive
// round trips untouched. Returns sql.ErrNoRows when the survey does
// not exist.
func loadSurvey(ctx context.Context, q queryer, surveyID string) (model.Survey, error) {
	survey := model.Survey{}
	err := q.QueryRowContext(ctx, `
		SELECT id, version, title, description, status, is_public, allow_anonymous
		FROM survey
		WHERE id = ?`,
		surveyID,
	).Scan(
		&survey.ID, &survey.Version, &survey.Title, &survey.Description,
		&survey.Status, &survey.IsPublic, &survey.AllowAnonymous,
	)
	if err != nil {
		return survey, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT p.id, p.name, sq.definition
		FROM survey_page p
		LEFT OUTER JOIN survey_question sq ON (sq.page_id = p.id)
		WHERE p.survey_id = ?
		ORDER BY p.ord, sq.ord`,
		surveyID,
	)
	if err != nil {
		return survey, err
	}
	defer rows.Close()

	for rows.Next() {
		var pageID, pageName string
		var definition sql.NullString
		if err := rows.Scan(&pageID, &pageName, &definition); err != nil {
			return survey, err
		}

		lastIdx := len(survey.Pages) - 1
		if lastIdx < 0 || survey.Pages[lastIdx].ID != pageID {
			survey.Pages = append(survey.Pages, model.Page{
				ID:         pageID,
				Name:       pageName,
				OrderIndex: lastIdx + 1,
				Questions:  []model.Question{},
			})
			lastIdx++
		}

		if !definition.Valid {
			continue
		}
		question := model.Question{}
		if err := json.Unmarshal([]byte(definition.String), &question); err != nil {
			return survey, err
		}
		survey.Pages[lastIdx].Questions = append(survey.Pages[lastIdx].Questions, question)
	}

	return survey, rows.Err()
}

// duplicatePages copies a page tree with fresh ids. Conditional rules
// referencing a question inside the tree are rewritten to the copied
// id; references the tree cannot resolve are left as they are.
func duplicatePages(pages []model.Page) []model.Page {
	idMap := map[string]string{}

	copied := make([]model.Page, len(pages))
	for pi, page := range pages {
		page.ID = newID()

		questions := make([]model.Question, len(page.Questions))
		for qi, question := range page.Questions {
			if question.ID != "" {
				idMap[question.ID] = newID()
			}
			question.ID = idMap[question.ID]
			if question.ConditionalLogic != nil {
				rule := *question.ConditionalLogic
				question.ConditionalLogic = &rule
			}
			questions[qi] = question
		}
		page.Questions = questions
		copied[pi] = page
	}

	for pi := range copied {
		for _, question := range copied[pi].Questions {
			rule := question.ConditionalLogic
			if rule == nil {
				continue
			}
			if mapped, ok := idMap[rule.DependsOn]; ok {
				rule.DependsOn = mapped
			}
		}
	}

	return copied
}

// insertSurveyTree stores the pages and questions of a document,
// minting ids for entries the builder has not named yet.
func insertSurveyTree(ctx context.Context, tx *sql.Tx, surveyID string, pages []model.Page) error {
	pageStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO survey_page (id, survey_id, ord, name)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pageStmt.Close()

	questionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO survey_question (id, page_id, ord, type, name, title, required, definition)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer questionStmt.Close()

	for pi, page := range pages {
		if page.ID == "" {
			page.ID = newID()
		}
		if _, err := pageStmt.ExecContext(ctx, page.ID, surveyID, pi, page.Name); err != nil {
			return err
		}

		for qi, question := range page.Questions {
			if question.ID == "" {
				question.ID = newID()
			}
			question.OrderIndex = qi

			definition, err := json.Marshal(question)
			if err != nil {
				return err
			}
			_, err = questionStmt.ExecContext(ctx,
				question.ID, page.ID, qi,
				question.Type, question.Name, question.Title, question.Required,
				string(definition),
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
