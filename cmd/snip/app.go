package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app is what a command works with: the workspace in the current
// directory, the user config and a session over the stored data.
type app struct {
	ws      *storage.Workspace
	cfg     *storage.Config
	kv      storage.KV
	session *ops.Session
}

func openApp(ctx context.Context) (*app, error) {
	ws, err := storage.Open(".")
	if err != nil {
		return nil, err
	}
	cfg, err := storage.LoadConfig(ws.Root())
	if err != nil {
		return nil, err
	}
	kv, err := ws.OpenKV(cfg.QuotaBytes)
	if err != nil {
		return nil, err
	}
	session, err := ops.NewSession(ctx, kv)
	if err != nil {
		kv.Close()
		return nil, err
	}
	log.Debug().Str("root", ws.Root()).Int("quota", cfg.QuotaBytes).Msg("session opened")
	return &app{ws: ws, cfg: cfg, kv: kv, session: session}, nil
}

// Close drains pending writes and closes the backend.
func (a *app) Close() error {
	if err := a.session.Close(); err != nil {
		a.kv.Close()
		return err
	}
	return a.kv.Close()
}

// commandContext returns the command's context. Tests call the run
// functions with a nil command.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// flagChanged reports whether the named flag was set on the command line.
func flagChanged(cmd *cobra.Command, name string) bool {
	return cmd != nil && cmd.Flags().Changed(name)
}

// resolveTemplate parses a template reference and looks it up.
func (a *app) resolveTemplate(ref string) (model.Template, error) {
	id, err := model.ParseTemplateID(ref)
	if err != nil {
		return model.Template{}, err
	}
	t, ok := a.session.FindTemplate(id)
	if !ok {
		return model.Template{}, &cli.NotFoundError{Type: "template", ID: strings.TrimSpace(ref)}
	}
	return t, nil
}

// refs formats group and template ids with a shared width per kind.
type refs struct {
	maxGroup    int
	maxTemplate int
}

func newRefs(d *model.StorageData) refs {
	var r refs
	for _, g := range d.Groups {
		r.maxGroup = max(r.maxGroup, g.ID)
	}
	for _, t := range d.Templates {
		r.maxTemplate = max(r.maxTemplate, t.ID)
	}
	return r
}

func (r refs) group(id int) string {
	return model.FormatRef(model.RefGroup, id, r.maxGroup)
}

func (r refs) template(id int) string {
	return model.FormatRef(model.RefTemplate, id, r.maxTemplate)
}

// groupLabel names the group a template belongs to.
func groupLabel(d *model.StorageData, t model.Template) string {
	if d.IsOrphan(t) {
		return model.OrphanGroupName
	}
	return d.FindGroup(*t.GroupID).DisplayName()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
