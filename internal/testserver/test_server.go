package testserver

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GerardFevill/taskflow/internal/app"
	"github.com/GerardFevill/taskflow/internal/sqlite"
	"github.com/GerardFevill/taskflow/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is a REST server backed by a private in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Services *app.Services
}

// NewDB opens a migrated in-memory database named after the test.
func NewDB(t *testing.T) *sqlite.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// NewServices wires every service against a fresh database.
func NewServices(t *testing.T) (*sqlite.DB, *app.Services) {
	t.Helper()

	db := NewDB(t)
	return db, app.NewServices(db, nil)
}

// New starts an httptest server serving the REST API.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, services := NewServices(t)
	server := httptest.NewServer(transport.NewRouter(services, nil))

	t.Cleanup(server.Close)

	return &TestServer{
		Server:   server,
		DB:       db,
		Services: services,
	}
}
