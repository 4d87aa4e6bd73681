package server

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/groot/pkg/buildinfo"
	gerrors "github.com/matzehuels/groot/pkg/errors"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/pipeline"
	"github.com/matzehuels/groot/pkg/tree"
)

// treeSummary is one row of the catalog listing.
type treeSummary struct {
	Name   string   `json:"name"`
	Format string   `json:"format"`
	Nodes  int      `json:"nodes"`
	Atoms  int      `json:"atoms"`
	Levels int      `json:"levels"`
	Roots  []string `json:"roots"`
	Error  string   `json:"error,omitempty"`
}

// treeResponse is the full description of one tree.
type treeResponse struct {
	Name      string         `json:"name"`
	Mapping   tree.Mapping   `json:"mapping"`
	Roots     []string       `json:"roots"`
	Atoms     []string       `json:"atoms"`
	Levels    [][]string     `json:"levels"`
	NodeLevel map[string]int `json:"node_level"`
	NodeLabel map[string]int `json:"node_label"`
	AtomLabel map[string]int `json:"atom_label"`
}

// GET /healthz — liveness probe with build info.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"trees":  s.catalog.Len(),
		"build":  buildinfo.Map(),
	})
}

// GET /v1/trees — list the catalog.
func (s *Server) listTrees(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.List()
	out := make([]treeSummary, 0, len(entries))
	for _, e := range entries {
		sum := treeSummary{Name: e.Name, Format: string(e.Format), Roots: []string{}}
		if e.Err != nil {
			sum.Error = gerrors.UserMessage(e.Err)
		} else {
			sum.Nodes = e.Tree.Len()
			sum.Atoms = len(e.Tree.Atoms())
			sum.Levels = e.Tree.Depth()
			sum.Roots = e.Tree.Roots()
		}
		out = append(out, sum)
	}
	writeJSON(w, http.StatusOK, map[string]any{"trees": out})
}

// GET /v1/trees/{name}?root= — mapping and derived indices.
func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	e, err := s.catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t := e.Tree
	if root := r.URL.Query().Get("root"); root != "" {
		if t, err = t.Subtree(root); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, treeResponse{
		Name:      t.Name(),
		Mapping:   t.ToMapping(),
		Roots:     t.Roots(),
		Atoms:     t.Atoms(),
		Levels:    t.Levels(),
		NodeLevel: t.NodeLevel(),
		NodeLabel: t.NodeLabel(),
		AtomLabel: t.AtomLabel(),
	})
}

// GET /v1/trees/{name}/draw?root=&space=&marker=&level= — text art.
func (s *Server) drawTree(w http.ResponseWriter, r *http.Request) {
	s.renderEntry(w, r, pipeline.FormatText)
}

// GET /v1/trees/{name}/render/{format}?root=&detailed= — any artifact.
func (s *Server) renderTree(w http.ResponseWriter, r *http.Request) {
	s.renderEntry(w, r, chi.URLParam(r, "format"))
}

func (s *Server) renderEntry(w http.ResponseWriter, r *http.Request, format string) {
	e, err := s.catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := queryOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Source = e.Source
	opts.SourceFormat = e.Format
	opts.Name = e.Name
	s.execute(w, r, opts)
}

// POST /v1/render/{format}?input=&name=&root= — render the mapping in the
// request body. The input format comes from ?input= or the Content-Type.
func (s *Server) renderBody(w http.ResponseWriter, r *http.Request) {
	opts, err := queryOptions(r, chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.SourceFormat, err = inputFormat(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Source = body
	opts.Name = r.URL.Query().Get("name")
	s.execute(w, r, opts)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	writeArtifact(w, format, res.Artifacts[format], res.CacheInfo.LoadHit && res.CacheInfo.RenderHit)
}

// queryOptions builds pipeline options from the URL query.
func queryOptions(r *http.Request, format string) (pipeline.Options, error) {
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:    []string{format},
		Root:       q.Get("root"),
		AtomMarker: q.Get("marker"),
	}

	var err error
	if v := q.Get("space"); v != "" {
		if opts.Space, err = strconv.Atoi(v); err != nil || opts.Space < 1 {
			return opts, gerrors.New(gerrors.ErrCodeInvalidInput, "space must be a positive integer, got %q", v)
		}
	}
	if v := q.Get("level"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return opts, gerrors.New(gerrors.ErrCodeInvalidInput, "level must be a boolean, got %q", v)
		}
		opts.HideLevel = !show
	}
	if v := q.Get("detailed"); v != "" {
		if opts.Detailed, err = strconv.ParseBool(v); err != nil {
			return opts, gerrors.New(gerrors.ErrCodeInvalidInput, "detailed must be a boolean, got %q", v)
		}
	}
	if q.Has("refresh") {
		opts.Refresh = true
	}
	return opts, nil
}

// inputFormat picks the document format of a request body.
func inputFormat(r *http.Request) (treeio.Format, error) {
	if v := r.URL.Query().Get("input"); v != "" {
		return treeio.ParseFormat(v)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return treeio.FormatYAML, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "bad Content-Type %q", ct)
	}
	switch mt {
	case "application/json":
		return treeio.FormatJSON, nil
	case "application/toml":
		return treeio.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml", "text/plain", "application/octet-stream":
		return treeio.FormatYAML, nil
	}
	return "", gerrors.New(gerrors.ErrCodeInvalidFormat, "unsupported Content-Type %q (want YAML, JSON or TOML)", mt)
}
