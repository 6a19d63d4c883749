package api

import (
	"encoding/json"
	"net/http"

	"github.com/kintree/kintree/pkg/buildinfo"
	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/graph"
	"github.com/kintree/kintree/pkg/pipeline"
)

// ----- Health -----

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// ----- Engines -----

type relationshipsResponse struct {
	RootID        string            `json:"rootId"`
	Relationships map[string]string `json:"relationships"`
	Cached        bool              `json:"cached"`
}

type layoutResponse struct {
	RootID    string                    `json:"rootId"`
	Positions map[string]graph.Position `json:"positions"`
	Cached    bool                      `json:"cached"`
}

type treeResponse struct {
	graph.Result
	Unreachable int  `json:"unreachable"`
	Generations int  `json:"generations"`
	Cached      bool `json:"cached"`
}

func (s *Server) adjacency(w http.ResponseWriter, r *http.Request) {
	var req graph.Document
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := graph.ToDocument(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graph.FromAdjacency(family.BuildAdjacency(doc.Persons, doc.Relations)))
}

func (s *Server) relationships(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.computeInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	labels, hit, err := s.runner.RelationshipsWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, relationshipsResponse{RootID: opts.RootID, Relationships: labels, Cached: hit})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.computeInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	positions, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{RootID: opts.RootID, Positions: graph.FromPoints(positions), Cached: hit})
}

func (s *Server) tree(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.computeInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{
		Result: graph.Result{
			RootID:        res.RootID,
			Relationships: res.Relationships,
			Positions:     graph.FromPoints(res.Positions),
			Levels:        res.Levels,
		},
		Unreachable: res.Stats.Unreachable,
		Generations: res.Stats.Generations,
		Cached:      res.CacheInfo.ResultHit,
	})
}

// computeInput decodes a document request into a model and pipeline
// options. The "root" query parameter overrides the document's rootId.
func (s *Server) computeInput(w http.ResponseWriter, r *http.Request) (family.Document, pipeline.Options, error) {
	var req computeRequest
	if err := s.decode(w, r, &req); err != nil {
		return family.Document{}, pipeline.Options{}, err
	}
	doc, err := graph.ToDocument(req.Document)
	if err != nil {
		return family.Document{}, pipeline.Options{}, err
	}
	root := r.URL.Query().Get("root")
	if root == "" {
		root = doc.RootID
	}
	opts := pipeline.Options{
		RootID:      root,
		SiblingGap:  req.SiblingGap,
		LevelHeight: req.LevelHeight,
		Refresh:     req.Refresh,
	}
	return doc, opts, nil
}

// ----- Editing -----

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := graph.ToDocument(req.Document)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := doc.Validate(); err != nil {
		s.writeError(w, r, kerrors.Wrap(kerrors.ErrCodeInvalidDocument, err, "invalid document"))
		return
	}
	t, err := family.ParseRelationType(req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := doc.Connect(req.Source, req.Target, t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graph.FromDocument(out))
}

// ----- Decoding -----

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "invalid JSON body: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "%s", validationMessage(err))
	}
	return nil
}
