package jira

import (
	"fmt"
	"strings"
)

// The types below are read-only views over the raw records the REST API
// returns. Sub-objects are built on demand from nested records and are never
// validated eagerly; a missing nested object simply yields a nil wrapper.

// Author is a Jira account (reporter, assignee, comment or attachment author).
type Author struct{ object }

// NewAuthor wraps a raw user record.
func NewAuthor(rec Record) Author { return Author{object{rec}} }

func (a Author) AccountID() string    { return a.Field("accountId").Str() }
func (a Author) AccountType() string  { return a.Field("accountType").Str() }
func (a Author) EmailAddress() string { return a.Field("emailAddress").Str() }
func (a Author) DisplayName() string  { return a.Field("displayName").Str() }
func (a Author) Active() bool         { return a.Field("active").Bool() }
func (a Author) Timezone() string     { return a.Field("timeZone").Str() }

// Struct returns the machine-readable form of the author.
func (a Author) Struct() map[string]any {
	return map[string]any{
		"displayName": a.Field("displayName").Struct(),
	}
}

// Text returns the human-readable form of the author.
func (a Author) Text() string { return a.DisplayName() }

// Comment is a single issue comment.
type Comment struct{ object }

// NewComment wraps a raw comment record.
func NewComment(rec Record) Comment { return Comment{object{rec}} }

func (c Comment) ID() string      { return c.Field("id").Str() }
func (c Comment) Body() Field     { return c.Field("body") }
func (c Comment) Created() string { return c.Field("created").Str() }
func (c Comment) Updated() string { return c.Field("updated").Str() }
func (c Comment) JSDPublic() bool { return c.Field("jsdPublic").Bool() }

// Author returns the comment author, or nil when the record carries none.
func (c Comment) Author() *Author {
	rec, ok := c.Field("author").AsRecord()
	if !ok {
		return nil
	}
	a := NewAuthor(rec)
	return &a
}

// Struct returns the machine-readable form of the comment.
func (c Comment) Struct() map[string]any {
	result := map[string]any{
		"body":    c.Body().Struct(),
		"created": c.Field("created").Struct(),
		"updated": c.Field("updated").Struct(),
	}
	if author := c.Author(); author != nil {
		result["author"] = author.Struct()
	}
	return result
}

// Text returns the comment as a block headed by author and date.
func (c Comment) Text() string {
	author := "<unknown author>"
	if a := c.Author(); a != nil {
		author = a.Text()
	}
	header := fmt.Sprintf("%s %s", author, c.Created())
	sep := strings.Repeat("-", len(header))
	return fmt.Sprintf("%s\n%s\n%s\n%s\n", sep, header, sep, c.Body().Text())
}

// CommentList is the comment container of an issue. The server reports a
// total that can exceed the number of comments actually delivered; comment
// pagination is detected through Total but not performed.
type CommentList struct{ object }

// NewCommentList wraps a raw comment container record.
func NewCommentList(rec Record) CommentList { return CommentList{object{rec}} }

func (l CommentList) MaxResults() int { return l.Field("maxResults").Int() }
func (l CommentList) Total() int      { return l.Field("total").Int() }
func (l CommentList) StartAt() int    { return l.Field("startAt").Int() }

// Comments returns the comments present in the container.
func (l CommentList) Comments() []Comment {
	recs := l.Field("comments").Records()
	out := make([]Comment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NewComment(rec))
	}
	return out
}

// Len returns the number of comments actually fetched.
func (l CommentList) Len() int { return len(l.Field("comments").Records()) }

// Struct returns the comments as a list. The list is empty, never nil, so an
// issue without comments serializes as an empty list rather than a missing key.
func (l CommentList) Struct() []any {
	comments := l.Comments()
	out := make([]any, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.Struct())
	}
	return out
}

// Text returns all fetched comments joined into one block.
func (l CommentList) Text() string {
	comments := l.Comments()
	parts := make([]string, 0, len(comments))
	for _, c := range comments {
		parts = append(parts, c.Text())
	}
	return strings.Join(parts, "\n")
}

// Resolution describes how an issue was resolved.
type Resolution struct{ object }

// NewResolution wraps a raw resolution record.
func NewResolution(rec Record) Resolution { return Resolution{object{rec}} }

func (r Resolution) ID() string          { return r.Field("id").Str() }
func (r Resolution) Name() string        { return r.Field("name").Str() }
func (r Resolution) Description() string { return r.Field("description").Str() }

// Struct returns the machine-readable form of the resolution.
func (r Resolution) Struct() map[string]any {
	return map[string]any{
		"type":        "Resolution",
		"name":        r.Field("name").Struct(),
		"description": r.Field("description").Struct(),
	}
}

// Text returns the human-readable form of the resolution.
func (r Resolution) Text() string { return "Resolution: " + r.Name() }

// StatusCategory is the coarse grouping of a status (new/indeterminate/done).
type StatusCategory struct{ object }

// NewStatusCategory wraps a raw status category record.
func NewStatusCategory(rec Record) StatusCategory { return StatusCategory{object{rec}} }

func (s StatusCategory) Key() string       { return s.Field("key").Str() }
func (s StatusCategory) Name() string      { return s.Field("name").Str() }
func (s StatusCategory) ColorName() string { return s.Field("colorName").Str() }

// Status is an issue workflow status.
type Status struct{ object }

// NewStatus wraps a raw status record.
func NewStatus(rec Record) Status { return Status{object{rec}} }

func (s Status) ID() string          { return s.Field("id").Str() }
func (s Status) Key() string         { return s.Field("key").Str() }
func (s Status) Name() string        { return s.Field("name").Str() }
func (s Status) Description() string { return s.Field("description").Str() }
func (s Status) IconURL() string     { return s.Field("iconUrl").Str() }

// Category returns the status category, or nil when not delivered.
func (s Status) Category() *StatusCategory {
	rec, ok := s.Field("statusCategory").AsRecord()
	if !ok {
		return nil
	}
	c := NewStatusCategory(rec)
	return &c
}

// Priority is an issue priority.
type Priority struct{ object }

// NewPriority wraps a raw priority record.
func NewPriority(rec Record) Priority { return Priority{object{rec}} }

func (p Priority) ID() string      { return p.Field("id").Str() }
func (p Priority) Name() string    { return p.Field("name").Str() }
func (p Priority) IconURL() string { return p.Field("iconUrl").Str() }

// IssueType classifies an issue (bug, task, subtask, ...).
type IssueType struct{ object }

// NewIssueType wraps a raw issue type record.
func NewIssueType(rec Record) IssueType { return IssueType{object{rec}} }

func (t IssueType) ID() string          { return t.Field("id").Str() }
func (t IssueType) Name() string        { return t.Field("name").Str() }
func (t IssueType) Description() string { return t.Field("description").Str() }
func (t IssueType) Subtask() bool       { return t.Field("subtask").Bool() }
func (t IssueType) AvatarID() int       { return t.Field("avatarId").Int() }
func (t IssueType) HierarchyLevel() int { return t.Field("hierarchyLevel").Int() }

// Project is the project an issue belongs to.
type Project struct{ object }

// NewProject wraps a raw project record.
func NewProject(rec Record) Project { return Project{object{rec}} }

func (p Project) ID() string   { return p.Field("id").Str() }
func (p Project) Key() string  { return p.Field("key").Str() }
func (p Project) Name() string { return p.Field("name").Str() }

// Attachment is a binary file attached to an issue.
type Attachment struct{ object }

// NewAttachment wraps a raw attachment record.
func NewAttachment(rec Record) Attachment { return Attachment{object{rec}} }

func (a Attachment) ID() string         { return a.Field("id").Str() }
func (a Attachment) Filename() string   { return a.Field("filename").Str() }
func (a Attachment) Created() string    { return a.Field("created").Str() }
func (a Attachment) Size() int64        { return a.Field("size").Int64() }
func (a Attachment) MimeType() string   { return a.Field("mimeType").Str() }
func (a Attachment) ContentURL() string { return a.Field("content").Str() }
func (a Attachment) Thumbnail() string  { return a.Field("thumbnail").Str() }

// Author returns the attachment uploader, or nil when not delivered.
func (a Attachment) Author() *Author {
	rec, ok := a.Field("author").AsRecord()
	if !ok {
		return nil
	}
	author := NewAuthor(rec)
	return &author
}

// Issue is a Jira issue. Most data lives in the nested "fields" object;
// FieldOf looks up keys there and keeps the not-fetched/null distinction.
type Issue struct {
	object
	fields Record
}

// NewIssue wraps a raw issue record as returned by the search or issue
// endpoints.
func NewIssue(rec Record) Issue {
	fields, _ := rec.Field("fields").AsRecord()
	return Issue{object: object{rec}, fields: fields}
}

// Key returns the human-readable issue key (e.g. PROJ-42).
func (i Issue) Key() string { return i.Field("key").Str() }

// ID returns the internal issue id.
func (i Issue) ID() string { return i.Field("id").Str() }

// FieldOf looks up a key in the issue's nested "fields" object. When the
// fields object itself was not requested, every key reports NotFetched.
func (i Issue) FieldOf(key string) Field {
	if i.fields == nil {
		return Field{state: NotFetched}
	}
	return i.fields.Field(key)
}

func (i Issue) Summary() Field                  { return i.FieldOf("summary") }
func (i Issue) Description() Field              { return i.FieldOf("description") }
func (i Issue) Labels() Field                   { return i.FieldOf("labels") }
func (i Issue) Created() Field                  { return i.FieldOf("created") }
func (i Issue) Updated() Field                  { return i.FieldOf("updated") }
func (i Issue) ResolutionDate() Field           { return i.FieldOf("resolutiondate") }
func (i Issue) StatusCategoryChangeDate() Field { return i.FieldOf("statuscategorychangedate") }

// Status returns the issue status, or nil when not delivered.
func (i Issue) Status() *Status {
	rec, ok := i.FieldOf("status").AsRecord()
	if !ok {
		return nil
	}
	s := NewStatus(rec)
	return &s
}

// Priority returns the issue priority, or nil when not delivered.
func (i Issue) Priority() *Priority {
	rec, ok := i.FieldOf("priority").AsRecord()
	if !ok {
		return nil
	}
	p := NewPriority(rec)
	return &p
}

// IssueType returns the issue type, or nil when not delivered.
func (i Issue) IssueType() *IssueType {
	rec, ok := i.FieldOf("issuetype").AsRecord()
	if !ok {
		return nil
	}
	t := NewIssueType(rec)
	return &t
}

// Project returns the issue's project, or nil when not delivered.
func (i Issue) Project() *Project {
	rec, ok := i.FieldOf("project").AsRecord()
	if !ok {
		return nil
	}
	p := NewProject(rec)
	return &p
}

// Reporter returns the reporting account, or nil when not delivered.
func (i Issue) Reporter() *Author {
	rec, ok := i.FieldOf("reporter").AsRecord()
	if !ok {
		return nil
	}
	a := NewAuthor(rec)
	return &a
}

// Assignee returns the assigned account, or nil when unassigned or not
// delivered.
func (i Issue) Assignee() *Author {
	rec, ok := i.FieldOf("assignee").AsRecord()
	if !ok {
		return nil
	}
	a := NewAuthor(rec)
	return &a
}

// Resolution returns the issue resolution, or nil while unresolved.
func (i Issue) Resolution() *Resolution {
	rec, ok := i.FieldOf("resolution").AsRecord()
	if !ok {
		return nil
	}
	r := NewResolution(rec)
	return &r
}

// Parent returns the parent issue, or nil for top-level issues.
func (i Issue) Parent() *Issue {
	rec, ok := i.FieldOf("parent").AsRecord()
	if !ok {
		return nil
	}
	p := NewIssue(rec)
	return &p
}

// Comments returns the issue's comment container, or nil when the comment
// field was not requested.
func (i Issue) Comments() *CommentList {
	rec, ok := i.FieldOf("comment").AsRecord()
	if !ok {
		return nil
	}
	l := NewCommentList(rec)
	return &l
}

// Subtasks returns the issue's subtasks.
func (i Issue) Subtasks() []Issue {
	recs := i.FieldOf("subtasks").Records()
	out := make([]Issue, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NewIssue(rec))
	}
	return out
}

// Attachments returns the issue's attachments.
func (i Issue) Attachments() []Attachment {
	recs := i.FieldOf("attachment").Records()
	out := make([]Attachment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NewAttachment(rec))
	}
	return out
}

// Struct returns the machine-readable form of the issue. Scalar fields keep
// explicit nulls but drop keys that were never fetched; optional sub-objects
// appear only when delivered.
func (i Issue) Struct() map[string]any {
	result := map[string]any{
		"type": "Issue",
		"key":  i.Key(),
	}
	scalars := []struct {
		key   string
		field Field
	}{
		{"summary", i.Summary()},
		{"description", i.Description()},
		{"created", i.Created()},
		{"labels", i.Labels()},
		{"updated", i.Updated()},
		{"resolutiondate", i.ResolutionDate()},
	}
	for _, s := range scalars {
		if s.field.Fetched() {
			result[s.key] = s.field.Struct()
		}
	}
	if parent := i.Parent(); parent != nil {
		result["parent"] = parent.Key()
	}
	if resolution := i.Resolution(); resolution != nil {
		result["resolution"] = resolution.Struct()
	}
	if comments := i.Comments(); comments != nil {
		result["comments"] = comments.Struct()
	}
	return result
}

// Text returns the human-readable multi-line form of the issue. Missing
// sub-objects render as placeholders instead of failing.
func (i Issue) Text() string {
	issueType := "Unknown"
	if t := i.IssueType(); t != nil {
		issueType = t.Name()
	}
	status := "Unknown"
	if s := i.Status(); s != nil {
		status = s.Name()
	}
	priority := "Unknown"
	if p := i.Priority(); p != nil {
		priority = p.Name()
	}
	reporter := "Unknown"
	if r := i.Reporter(); r != nil {
		reporter = r.DisplayName()
	}
	assignee := "Unknown"
	if a := i.Assignee(); a != nil {
		assignee = a.DisplayName()
	}
	resolution := "Unresolved"
	if r := i.Resolution(); r != nil {
		resolution = r.Name()
	}

	subtasks := "none"
	if st := i.Subtasks(); len(st) > 0 {
		keys := make([]string, 0, len(st))
		for _, s := range st {
			keys = append(keys, s.Key())
		}
		subtasks = strings.Join(keys, ", ")
	}

	labels := i.Labels().Text()
	if i.Labels().Present() {
		labels = strings.Join(i.Labels().Strings(), ", ")
	}

	comments := ""
	if cl := i.Comments(); cl != nil {
		comments = cl.Text()
	}

	return fmt.Sprintf(`Issue: %s
Type: %s
Status: %s
Priority: %s
Reporter: %s
Assignee: %s
Resolution: %s
Subtasks: %s
Summary: %s
Description:

%s
---
Labels: %s
Created: %s
Updated: %s
Comments:

%s`,
		i.Key(), issueType, status, priority, reporter, assignee, resolution,
		subtasks, i.Summary().Text(), i.Description().Text(), labels,
		i.Created().Text(), i.Updated().Text(), comments)
}
