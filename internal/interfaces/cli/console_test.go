package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeweave/weavectl/internal/core/domain"
	apihttp "github.com/homeweave/weavectl/internal/http"
	"github.com/homeweave/weavectl/internal/logging"
)

func newTestConsoleModel(serverURL string) consoleModel {
	client := apihttp.NewConsoleClient(serverURL, 2*time.Second, logging.NewConsoleLogger("[test]", false))
	return newConsoleModel(client, time.Minute)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConsole_PluginsLoadedUpdatesState(t *testing.T) {
	m := newTestConsoleModel("http://localhost:0")
	m.loading = true
	m.selectedRow = 5

	updated, _ := m.Update(pluginsLoadedMsg{plugins: []domain.Plugin{
		{ID: "1", Name: "Foo"},
		{ID: "2", Name: "Bar"},
	}})
	model := updated.(consoleModel)

	assert.Len(t, model.plugins, 2)
	assert.False(t, model.loading)
	assert.Equal(t, 1, model.selectedRow, "Cursor is clamped to the new list")
}

func TestConsole_EnableIgnoredForUninstalledPlugin(t *testing.T) {
	m := newTestConsoleModel("http://localhost:0")
	m.plugins = []domain.Plugin{{ID: "1", Name: "Foo", Installed: false}}

	updated, cmd := m.Update(keyMsg("e"))
	model := updated.(consoleModel)

	assert.Nil(t, cmd, "Enable must not dispatch for an uninstalled plugin")
	assert.NotEmpty(t, model.notice)
	assert.False(t, model.loading)
}

func TestConsole_DisableIgnoredForUninstalledPlugin(t *testing.T) {
	m := newTestConsoleModel("http://localhost:0")
	m.plugins = []domain.Plugin{{ID: "1", Name: "Foo", Installed: false}}

	_, cmd := m.Update(keyMsg("d"))

	assert.Nil(t, cmd, "Disable must not dispatch for an uninstalled plugin")
}

func TestConsole_InstallDispatchesToBackend(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := newTestConsoleModel(server.URL)
	m.plugins = []domain.Plugin{{ID: "1", Name: "Foo", Installed: false}}

	updated, cmd := m.Update(keyMsg("i"))
	model := updated.(consoleModel)
	require.NotNil(t, cmd, "Install dispatches for an uninstalled plugin")
	assert.True(t, model.loading)

	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	require.True(t, ok, "Expected actionDoneMsg, got %T", msg)
	assert.NoError(t, done.err)
	assert.Equal(t, "Install", done.verb)

	assert.Equal(t, "/api/plugins/install", gotPath)
	assert.Equal(t, map[string]string{"id": "1"}, gotBody)
}

func TestConsole_DisableDispatchesDeactivate(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := newTestConsoleModel(server.URL)
	m.plugins = []domain.Plugin{{ID: "2", Name: "Bar", Installed: true, Enabled: true, Activated: true}}

	_, cmd := m.Update(keyMsg("d"))
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(actionDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)

	assert.Equal(t, "/api/plugins/deactivate", gotPath)
}

func TestConsole_ActionDoneReloadsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/plugins/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]domain.Plugin{{ID: "1", Name: "Foo", Installed: true}})
	}))
	defer server.Close()

	m := newTestConsoleModel(server.URL)

	updated, cmd := m.Update(actionDoneMsg{verb: "Install", name: "Foo"})
	model := updated.(consoleModel)
	require.NotNil(t, cmd, "A successful action re-fetches the list")
	assert.Contains(t, model.notice, "dispatched")

	msg := cmd()
	loaded, ok := msg.(pluginsLoadedMsg)
	require.True(t, ok, "Expected pluginsLoadedMsg, got %T", msg)
	require.Len(t, loaded.plugins, 1)
	assert.True(t, loaded.plugins[0].Installed)
}

func TestConsole_ActionErrorShowsNoticeWithoutReload(t *testing.T) {
	m := newTestConsoleModel("http://localhost:0")
	m.loading = true

	updated, cmd := m.Update(actionDoneMsg{verb: "Enable", name: "Foo", err: assert.AnError})
	model := updated.(consoleModel)

	assert.Nil(t, cmd)
	assert.False(t, model.loading)
	assert.Contains(t, model.notice, "failed")
}

func TestConsole_ViewRenderingRule(t *testing.T) {
	tests := []struct {
		name        string
		plugin      domain.Plugin
		wantShown   []string
		wantMissing []string
	}{
		{
			name:        "Uninstalled_ShowsInstallOnly",
			plugin:      domain.Plugin{ID: "1", Name: "Foo", Installed: false},
			wantShown:   []string{"Install"},
			wantMissing: []string{"Remove", "Enable", "Disable", "Running"},
		},
		{
			name:        "InstalledDisabled_ShowsRemoveEnable",
			plugin:      domain.Plugin{ID: "1", Name: "Foo", Installed: true},
			wantShown:   []string{"Remove", "Enable"},
			wantMissing: []string{"Install", "Disable", "Running"},
		},
		{
			name:      "EnabledActivated_ShowsDisableAndRunning",
			plugin:    domain.Plugin{ID: "1", Name: "Foo", Installed: true, Enabled: true, Activated: true},
			wantShown: []string{"Remove", "Disable", "Running"},
			wantMissing: []string{
				"Install", "Enable/", "Not running",
			},
		},
		{
			name:      "EnabledNotActivated_ShowsNotRunning",
			plugin:    domain.Plugin{ID: "1", Name: "Foo", Installed: true, Enabled: true, Activated: false},
			wantShown: []string{"Remove", "Disable", "Not running"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestConsoleModel("http://localhost:0")
			m.plugins = []domain.Plugin{tt.plugin}

			view := m.View()

			for _, s := range tt.wantShown {
				assert.Contains(t, view, s)
			}
			for _, s := range tt.wantMissing {
				assert.NotContains(t, view, s)
			}
		})
	}
}

func TestConsole_Navigation(t *testing.T) {
	m := newTestConsoleModel("http://localhost:0")
	m.plugins = []domain.Plugin{{ID: "1"}, {ID: "2"}}

	updated, _ := m.Update(keyMsg("j"))
	model := updated.(consoleModel)
	assert.Equal(t, 1, model.selectedRow)

	updated, _ = model.Update(keyMsg("j"))
	model = updated.(consoleModel)
	assert.Equal(t, 1, model.selectedRow, "Cursor stops at the last row")

	updated, _ = model.Update(keyMsg("k"))
	model = updated.(consoleModel)
	assert.Equal(t, 0, model.selectedRow)
}

func TestConsole_QuitKey(t *testing.T) {
	m := newTestConsoleModel("http://localhost:0")

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)

	assert.IsType(t, tea.QuitMsg{}, cmd())
}
