// Package render turns comment trees into a toolkit-agnostic view tree.
// Adapters for HTML and the terminal consume View; nothing here knows how it
// will be drawn.
package render

import (
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/studychannel/studychannel/internal/commenttree"
	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/util"
)

type ModerationKind string

const (
	ModerationReport          ModerationKind = "report"
	ModerationRequestDeletion ModerationKind = "request_deletion"
)

// State is the session-local view state a render pass reads. The zero value
// renders everything expanded with no optimistic bumps.
type State struct {
	ViewerID      string
	ReplyTargetID string
	Collapsed     map[string]bool
	LikeBumps     map[string]int
	Now           time.Time
}

type View struct {
	Nodes        []*ViewNode `json:"nodes"`
	Empty        bool        `json:"empty"`
	EmptyMessage string      `json:"empty_message,omitempty"`
	Banner       *Banner     `json:"banner,omitempty"`
}

type ViewNode struct {
	ID         string         `json:"id"`
	Number     int            `json:"number"`
	Author     string         `json:"author"`
	CreatedAt  time.Time      `json:"created_at"`
	RelTime    string         `json:"rel_time"`
	BodyHTML   string         `json:"body_html"`
	Images     []string       `json:"images"`
	Depth      int            `json:"depth"`
	LikeCount  int            `json:"like_count"`
	Moderation ModerationKind `json:"moderation"`
	Toggle     *Toggle        `json:"toggle,omitempty"`
	Selected   bool           `json:"selected"`
	Hidden     bool           `json:"hidden"`
	Children   []*ViewNode    `json:"children"`
}

type Toggle struct {
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Expanded bool   `json:"expanded"`
}

type Banner struct {
	TargetID  string `json:"target_id"`
	Author    string `json:"author"`
	Snippet   string `json:"snippet"`
	Text      string `json:"text"`
	IsDefault bool   `json:"is_default"`
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderTopLevel renders nodes in the order given. An empty input renders the
// empty state, never a partial tree.
func (r *Renderer) RenderTopLevel(nodes []*commenttree.Node, st State) View {
	if len(nodes) == 0 {
		return View{
			Nodes:        []*ViewNode{},
			Empty:        true,
			EmptyMessage: constant.EMPTY_REPLIES_LABEL,
		}
	}

	out := make([]*ViewNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, r.renderNode(n, n.Depth, st, false))
	}

	return View{Nodes: out}
}

// RenderNode renders node at depth, with its descendants one level deeper each.
func (r *Renderer) RenderNode(node *commenttree.Node, depth int, st State) *ViewNode {
	return r.renderNode(node, depth, st, false)
}

func (r *Renderer) renderNode(node *commenttree.Node, depth int, st State, hidden bool) *ViewNode {
	c := node.Comment
	v := &ViewNode{
		ID:         c.Id,
		Number:     c.CommentNumber,
		Author:     displayAuthor(c.AuthorName),
		CreatedAt:  c.CreatedAt,
		RelTime:    relTime(c.CreatedAt, st.Now),
		BodyHTML:   EscapeBody(c.Content),
		Images:     images(c.Images),
		Depth:      depth,
		LikeCount:  c.LikeCount + st.LikeBumps[c.Id],
		Moderation: moderationFor(st.ViewerID, c.UserFingerprint),
		Selected:   st.ReplyTargetID != "" && st.ReplyTargetID == c.Id,
		Hidden:     hidden,
		Children:   []*ViewNode{},
	}

	if len(node.Children) == 0 {
		return v
	}

	expanded := !st.Collapsed[c.Id]
	v.Toggle = &Toggle{
		Label:    fmt.Sprintf(constant.REPLY_COUNT_LABEL, len(node.Children)),
		Count:    len(node.Children),
		Expanded: expanded,
	}

	for _, child := range node.Children {
		v.Children = append(v.Children, r.renderNode(child, depth+1, st, hidden || !expanded))
	}

	return v
}

// Banner describes the current reply target. An id missing from g falls back
// to defaultID; an empty default means the thread itself.
func (r *Renderer) Banner(g *commenttree.Graph, targetID string, defaultID string) Banner {
	c, ok := g.Get(targetID)
	if !ok {
		targetID = defaultID
		c, ok = g.Get(defaultID)
	}

	b := Banner{
		TargetID:  targetID,
		IsDefault: targetID == defaultID,
	}

	if !ok {
		b.Text = constant.REPLY_BANNER_PREFIX + ": " + constant.THREAD_TARGET_LABEL
		return b
	}

	b.Author = displayAuthor(c.AuthorName)
	b.Snippet = snippet(c)
	b.Text = constant.REPLY_BANNER_PREFIX + ": " + b.Author + ": " + b.Snippet
	return b
}

// EscapeBody HTML-escapes comment text and keeps its line breaks.
func EscapeBody(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(template.HTMLEscapeString(content), "\n", "<br>")
}

func moderationFor(viewerID string, authorFingerprint string) ModerationKind {
	if viewerID != "" && authorFingerprint != "" && viewerID == authorFingerprint {
		return ModerationRequestDeletion
	}
	return ModerationReport
}

func displayAuthor(name string) string {
	if strings.TrimSpace(name) == "" {
		return constant.DEFAULT_AUTHOR_NAME
	}
	return name
}

func snippet(c model.Comment) string {
	if strings.TrimSpace(c.Content) == "" && len(c.Images) > 0 {
		return constant.IMAGE_ONLY_LABEL
	}
	return util.Snippet(c.Content)
}

func images(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var relTimeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "たった今", DivBy: time.Second},
	{D: time.Minute, Format: "%d秒%s", DivBy: time.Second},
	{D: time.Hour, Format: "%d分%s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%d時間%s", DivBy: time.Hour},
	{D: humanize.Week, Format: "%d日%s", DivBy: humanize.Day},
	{D: humanize.Month, Format: "%d週間%s", DivBy: humanize.Week},
	{D: humanize.Year, Format: "%dか月%s", DivBy: humanize.Month},
	{D: humanize.LongTime, Format: "%d年%s", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "ずっと%s", DivBy: 1},
}

func relTime(then time.Time, now time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	return humanize.CustomRelTime(then, now, "前", "後", relTimeMagnitudes)
}
