package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/zsiec/sccinspect/internal/cea608"
	"github.com/zsiec/sccinspect/internal/diag"
	"github.com/zsiec/sccinspect/internal/document"
	"github.com/zsiec/sccinspect/internal/report"
	"github.com/zsiec/sccinspect/internal/scc"
	"github.com/zsiec/sccinspect/internal/timecode"
)

// DocumentInfo summarizes an activated document.
type DocumentInfo struct {
	Key         string    `json:"key"`
	Lines       int       `json:"lines"`
	FrameRate   string    `json:"frameRate"`
	Samples     int       `json:"timestampsSampled"`
	ActivatedAt time.Time `json:"activatedAt"`
}

func infoOf(d *document.Document) DocumentInfo {
	return DocumentInfo{
		Key:         d.Key,
		Lines:       d.LineCount(),
		FrameRate:   d.Rate.String(),
		Samples:     d.RateSamples,
		ActivatedAt: d.ActivatedAt,
	}
}

// CodeInfo describes one code word of a line.
type CodeInfo struct {
	Word        string `json:"word"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Packet      int    `json:"packet"`
	Paired      bool   `json:"paired,omitempty"`
	Duplicate   bool   `json:"duplicate,omitempty"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// DecodedLine is the decode of a single line of SCC text.
type DecodedLine struct {
	Codes   []CodeInfo    `json:"codes"`
	Caption []scc.Segment `json:"caption,omitempty"`
	Plain   string        `json:"plain"`
}

func decodeLine(line string) DecodedLine {
	codes := scc.DecodeLine(line)
	out := DecodedLine{Codes: make([]CodeInfo, 0, len(codes))}
	for _, c := range codes {
		out.Codes = append(out.Codes, CodeInfo{
			Word:        c.Word.Text,
			Start:       c.Word.Start,
			End:         c.Word.End,
			Packet:      c.Packet,
			Paired:      c.Word.Paired,
			Duplicate:   c.Word.IsDuplicate(),
			Kind:        c.Event.Kind(),
			Description: cea608.Describe(c.Event, c.Word.Paired),
		})
	}
	out.Caption = scc.Annotate(line)
	out.Plain = scc.PlainText(out.Caption)
	return out
}

// LineInfo is the inspection of one document line.
type LineInfo struct {
	Line      int            `json:"line"`
	Text      string         `json:"text"`
	Timestamp string         `json:"timestamp,omitempty"`
	Findings  []diag.Finding `json:"findings,omitempty"`
	Start     string         `json:"start,omitempty"`
	End       string         `json:"end,omitempty"`
	DecodedLine
}

// TimeMapEntry is the on-screen interval of one line.
type TimeMapEntry struct {
	Line  int    `json:"line"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func (s *Server) document(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	d, ok := s.config.Manager.Get(r.PathValue("key"))
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return nil, false
	}
	return d, true
}

func (s *Server) handleListDocuments(w http.ResponseWriter, _ *http.Request) {
	docs := s.config.Manager.List()
	resp := make([]DocumentInfo, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, infoOf(d))
	}
	slices.SortFunc(resp, func(a, b DocumentInfo) int { return strings.Compare(a.Key, b.Key) })
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	d, created := s.config.Manager.Activate(key, body)
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, infoOf(d))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !s.config.Manager.Remove(r.PathValue("key")) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Build(d))
}

func (s *Server) handleTimeMap(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	tm := d.TimeMap()
	resp := make([]TimeMapEntry, 0, len(tm))
	for _, n := range tm.Lines() {
		iv := tm[n]
		e := TimeMapEntry{Line: n}
		if iv.Start != nil {
			e.Start = iv.Start.String()
		}
		if iv.End != nil {
			e.End = iv.End.String()
		}
		resp = append(resp, e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLine(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(r.PathValue("line"))
	if err != nil || n < 0 || n >= d.LineCount() {
		writeError(w, http.StatusBadRequest, "line out of range")
		return
	}

	text := d.Line(n)
	info := LineInfo{Line: n, Text: text, Findings: d.Findings(n), DecodedLine: decodeLine(text)}
	if m, ok := timecode.Find(text); ok {
		info.Timestamp = m.Text
	}
	if iv, ok := d.TimeMap()[n]; ok {
		if iv.Start != nil {
			info.Start = iv.Start.String()
		}
		if iv.End != nil {
			info.End = iv.End.String()
		}
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	d, ok := s.document(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	line, lerr := strconv.Atoi(q.Get("line"))
	col, cerr := strconv.Atoi(q.Get("col"))
	if lerr != nil || cerr != nil || line < 0 || col < 0 {
		writeError(w, http.StatusBadRequest, "line and col query parameters required")
		return
	}
	h, ok := d.Hover(line, col)
	if !ok {
		writeError(w, http.StatusNotFound, "nothing to describe at position")
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	line, _, _ := strings.Cut(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	writeJSON(w, http.StatusOK, decodeLine(line))
}

func (s *Server) handleReportSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Schema); err != nil {
		s.log.Debug("writing schema", "error", err)
	}
}

type certHashResponse struct {
	Hash     string    `json:"hash"`
	Addr     string    `json:"addr"`
	H3Addr   string    `json:"h3Addr,omitempty"`
	NotAfter time.Time `json:"notAfter"`
}

func (s *Server) handleCertHash(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, certHashResponse{
		Hash:     s.config.Cert.FingerprintBase64(),
		Addr:     s.config.Addr,
		H3Addr:   s.config.H3Addr,
		NotAfter: s.config.Cert.NotAfter,
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return "", false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return string(data), true
}
