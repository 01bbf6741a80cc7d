package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/okian/foundermatch/internal/domain/model"
)

const maxBodyBytes = 1 << 20

// yearText accepts a year as a JSON string or number and keeps its text.
type yearText string

func (y *yearText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*y = yearText(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*y = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.Atoi(n.String()); err != nil {
		return model.ErrInvalidYear
	}
	*y = yearText(n.String())
	return nil
}

// profileRequest is the body of profile and match requests. Omitted weight
// and num_neighbors take the configured defaults.
type profileRequest struct {
	Name           string   `json:"name"`
	DegreeType     string   `json:"degree_type"`
	GraduationYear yearText `json:"graduation_year"`
	CreationYear   yearText `json:"creation_year"`
	Weight         *int     `json:"weight"`
	NumNeighbors   *int     `json:"num_neighbors"`
}

// decodeProfileRequest reads the body; an empty body yields ok=false.
func decodeProfileRequest(r *http.Request) (req profileRequest, ok bool, err error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return profileRequest{}, false, nil
		}
		return profileRequest{}, false, err
	}
	return req, true, nil
}

func (p profileRequest) toQuery(defaultWeight, defaultNeighbors int) model.QueryProfile {
	q := model.QueryProfile{
		Name:           p.Name,
		DegreeType:     p.DegreeType,
		GraduationYear: string(p.GraduationYear),
		CreationYear:   string(p.CreationYear),
		Weight:         defaultWeight,
		NumNeighbors:   defaultNeighbors,
	}
	if p.Weight != nil {
		q.Weight = *p.Weight
	}
	if p.NumNeighbors != nil {
		q.NumNeighbors = *p.NumNeighbors
	}
	return q
}

// overlay replaces fields of base with those present in the request.
func (p profileRequest) overlay(base model.QueryProfile) model.QueryProfile {
	if p.DegreeType != "" {
		base.DegreeType = p.DegreeType
	}
	if p.GraduationYear != "" {
		base.GraduationYear = string(p.GraduationYear)
	}
	if p.CreationYear != "" {
		base.CreationYear = string(p.CreationYear)
	}
	if p.Weight != nil {
		base.Weight = *p.Weight
	}
	if p.NumNeighbors != nil {
		base.NumNeighbors = *p.NumNeighbors
	}
	return base
}

func wantsText(r *http.Request) bool {
	return r.URL.Query().Get("format") == "text"
}
