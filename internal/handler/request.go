package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/damoang/angple-notes/internal/common"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/damoang/angple-notes/internal/repository"
	"github.com/damoang/angple-notes/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

var jsonNull = []byte("null")

// errBodyTooLarge is surfaced as 413 rather than a validation error
var errBodyTooLarge = errors.New("request body too large")

// readObject decodes the body as a JSON object, keeping each member raw so that
// presence and type can be checked per field.
func readObject(c *gin.Context) (map[string]json.RawMessage, error) {
	if c.Request.Body == nil {
		return nil, common.ErrInvalidBody
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return nil, common.ErrInvalidBody
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, common.ErrInvalidBody
	}
	return fields, nil
}

// respondBodyError writes the response for a readObject or decode failure
func respondBodyError(c *gin.Context, err error) {
	if errors.Is(err, errBodyTooLarge) {
		common.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
		return
	}
	common.RespondError(c, err)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func asStrings(raw json.RawMessage) ([]string, bool) {
	if isNull(raw) {
		return nil, false
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, false
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, true
}

// looseBool accepts true, 1, "true" and "1"; everything else is false
func looseBool(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "true", "1", `"true"`, `"1"`:
		return true
	default:
		return false
	}
}

// decodeCreate builds a NoteCreateInput with defaults applied for missing or mistyped optionals
func decodeCreate(fields map[string]json.RawMessage) (domain.NoteCreateInput, error) {
	in := domain.NoteCreateInput{Tags: []string{}}

	raw, ok := fields["title"]
	if !ok {
		return in, common.ErrTitleRequired
	}
	title, ok := asString(raw)
	if !ok || strings.TrimSpace(title) == "" {
		return in, common.ErrTitleRequired
	}
	in.Title = title

	if raw, ok := fields["content"]; ok {
		in.Content, _ = asString(raw)
	}
	if raw, ok := fields["tags"]; ok {
		if tags, ok := asStrings(raw); ok {
			in.Tags = tags
		}
	}
	if raw, ok := fields["isArchived"]; ok {
		in.IsArchived = looseBool(raw)
	}
	return in, nil
}

// decodeUpdate builds a NoteUpdateInput from the supplied keys only; unknown keys are ignored
func decodeUpdate(fields map[string]json.RawMessage) (domain.NoteUpdateInput, error) {
	var in domain.NoteUpdateInput

	if raw, ok := fields["title"]; ok {
		title, ok := asString(raw)
		if !ok || strings.TrimSpace(title) == "" {
			return in, common.ErrTitleEmpty
		}
		in.Title = &title
	}
	if raw, ok := fields["content"]; ok {
		content := ""
		if !isNull(raw) {
			s, ok := asString(raw)
			if !ok {
				return in, common.ErrInvalidContent
			}
			content = s
		}
		in.Content = &content
	}
	if raw, ok := fields["tags"]; ok {
		tags, ok := asStrings(raw)
		if !ok {
			return in, common.ErrInvalidTags
		}
		in.Tags = &tags
	}
	if raw, ok := fields["isArchived"]; ok {
		archived := looseBool(raw)
		in.IsArchived = &archived
	}
	return in, nil
}

// parseNoteID reads the :id path parameter, which must be a positive decimal integer
func parseNoteID(c *gin.Context) (uint64, error) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil {
		return 0, common.ErrInvalidID
	}
	return id, nil
}

// listOptions reads the list query string; non-numeric limit/offset fall back to defaults
func listOptions(c *gin.Context) repository.NoteListOptions {
	opts := repository.NoteListOptions{
		Search:  c.Query("q"),
		Tag:     c.Query("tag"),
		SortBy:  c.Query("sortBy"),
		SortDir: c.Query("sortDir"),
		Limit:   ginutil.QueryInt(c, "limit", 0),
		Offset:  ginutil.QueryInt(c, "offset", 0),
	}
	if raw, ok := c.GetQuery("archived"); ok {
		archived := raw == "true" || raw == "1"
		opts.Archived = &archived
	}
	return opts
}
