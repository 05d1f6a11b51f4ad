package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/canvass-io/canvass/config"
)

// App bundles the shared collaborators that handler constructors
// close over.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
}
