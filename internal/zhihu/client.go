package zhihu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/glabrego/zhihu-cli/internal/credential"
)

const (
	DefaultV3BaseURL = "https://www.zhihu.com/api/v3"
	DefaultV4BaseURL = "https://www.zhihu.com/api/v4"

	// answerInclude is the field selection the answer detail endpoint needs to
	// return the full body instead of an excerpt.
	answerInclude = "data[*].is_normal,admin_closed_comment,reward_info,is_collapsed,annotation_action,annotation_detail,collapse_reason,is_sticky,collapsed_by,suggest_edit,comment_count,can_comment,content,editable_content,voteup_count,reshipment_settings,comment_permission,mark_infos,created_time,updated_time,review_info,question.detail,answer_count,follower_count,excerpt,detail,question_type,title,id,created,updated_time,relevant_info,excerpt,label_info,relationship.is_authorized,is_author,voting,is_thanked,is_nothelp,is_labeled,is_recognized"
)

// Sender is the transport contract: one GET, validated JSON back.
type Sender interface {
	Get(ctx context.Context, rawURL string, header map[string]string) (json.RawMessage, error)
}

type Options struct {
	V3BaseURL string
	V4BaseURL string
	UserAgent string
	// DetailConcurrency bounds the answer detail fan-out. 1 keeps it sequential.
	DetailConcurrency int
	// DetailRPS throttles detail requests; 0 disables throttling.
	DetailRPS float64
}

type Client struct {
	v3Base      string
	v4Base      string
	userAgent   string
	gate        *credential.Gate
	sender      Sender
	concurrency int
	limiter     *rate.Limiter
}

func NewClient(opts Options, gate *credential.Gate, sender Sender) *Client {
	if opts.V3BaseURL == "" {
		opts.V3BaseURL = DefaultV3BaseURL
	}
	if opts.V4BaseURL == "" {
		opts.V4BaseURL = DefaultV4BaseURL
	}
	if opts.DetailConcurrency < 1 {
		opts.DetailConcurrency = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.DetailRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.DetailRPS), 1)
	}
	return &Client{
		v3Base:      strings.TrimRight(opts.V3BaseURL, "/"),
		v4Base:      strings.TrimRight(opts.V4BaseURL, "/"),
		userAgent:   opts.UserAgent,
		gate:        gate,
		sender:      sender,
		concurrency: opts.DetailConcurrency,
		limiter:     limiter,
	}
}

type feedResponse struct {
	Data *[]struct {
		Target *struct {
			Question *struct {
				ID    json.RawMessage `json:"id"`
				Title *string         `json:"title"`
			} `json:"question"`
		} `json:"target"`
	} `json:"data"`
}

// FetchFeed loads the recommendation feed. A single entry without a question
// id or title fails the whole call.
func (c *Client) FetchFeed(ctx context.Context) ([]Topic, error) {
	header, err := c.authHeader()
	if err != nil {
		return nil, err
	}

	raw, err := c.sender.Get(ctx, c.v3Base+"/feed/topstory/recommend", header)
	if err != nil {
		return nil, fmt.Errorf("recommend feed: %w", err)
	}

	var resp feedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &MalformedResponseError{Field: "data", Err: err}
	}
	if resp.Data == nil {
		return nil, &MalformedResponseError{Field: "data"}
	}

	topics := make([]Topic, 0, len(*resp.Data))
	for i, item := range *resp.Data {
		if item.Target == nil || item.Target.Question == nil {
			return nil, &MalformedResponseError{Field: fmt.Sprintf("data[%d].target.question", i)}
		}
		q := item.Target.Question
		id := scalarString(q.ID)
		if id == "" {
			return nil, &MalformedResponseError{Field: fmt.Sprintf("data[%d].target.question.id", i)}
		}
		if q.Title == nil {
			return nil, &MalformedResponseError{Field: fmt.Sprintf("data[%d].target.question.title", i)}
		}
		topics = append(topics, Topic{ID: id, Title: *q.Title})
	}
	return topics, nil
}

type answerListResponse struct {
	Data *[]struct {
		URL *string `json:"url"`
	} `json:"data"`
}

type answerDetailResponse struct {
	Content *string `json:"content"`
	Author  *struct {
		Name *string `json:"name"`
	} `json:"author"`
}

// FetchReplies loads one page of answers. The list endpoint only returns
// detail URLs, so each answer costs one more round-trip. Any failure fails the
// page; replies keep list order.
func (c *Client) FetchReplies(ctx context.Context, topicID string, offset int) ([]Reply, error) {
	header, err := c.authHeader()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(topicID) == "" {
		return nil, fmt.Errorf("fetch answers: empty question id")
	}
	if offset < 0 {
		return nil, fmt.Errorf("fetch answers: negative offset %d", offset)
	}

	q := make(url.Values)
	q.Set("limit", strconv.Itoa(PageSize))
	q.Set("offset", strconv.Itoa(offset))
	listURL := c.v4Base + "/questions/" + url.PathEscape(topicID) + "/answers?" + q.Encode()

	raw, err := c.sender.Get(ctx, listURL, header)
	if err != nil {
		return nil, fmt.Errorf("answer list: %w", err)
	}

	var list answerListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &MalformedResponseError{Field: "data", Err: err}
	}
	if list.Data == nil {
		return nil, &MalformedResponseError{Field: "data"}
	}

	detailURLs := make([]string, len(*list.Data))
	for i, item := range *list.Data {
		if item.URL == nil || strings.TrimSpace(*item.URL) == "" {
			return nil, &MalformedResponseError{Field: fmt.Sprintf("data[%d].url", i)}
		}
		detailURL, err := withInclude(*item.URL)
		if err != nil {
			return nil, &MalformedResponseError{Field: fmt.Sprintf("data[%d].url", i), Err: err}
		}
		detailURLs[i] = detailURL
	}

	replies := make([]Reply, len(detailURLs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, detailURL := range detailURLs {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			reply, err := c.fetchReply(gctx, detailURL, header, i)
			if err != nil {
				return err
			}
			replies[i] = reply
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return replies, nil
}

func (c *Client) fetchReply(ctx context.Context, detailURL string, header map[string]string, index int) (Reply, error) {
	raw, err := c.sender.Get(ctx, detailURL, header)
	if err != nil {
		return Reply{}, fmt.Errorf("answer %d detail: %w", index, err)
	}
	var detail answerDetailResponse
	if err := json.Unmarshal(raw, &detail); err != nil {
		return Reply{}, &MalformedResponseError{Field: fmt.Sprintf("answer[%d]", index), Err: err}
	}
	if detail.Content == nil {
		return Reply{}, &MalformedResponseError{Field: fmt.Sprintf("answer[%d].content", index)}
	}
	if detail.Author == nil || detail.Author.Name == nil {
		return Reply{}, &MalformedResponseError{Field: fmt.Sprintf("answer[%d].author.name", index)}
	}
	return Reply{AuthorName: *detail.Author.Name, ContentHTML: *detail.Content}, nil
}

// authHeader snapshots the cookie at call time.
func (c *Client) authHeader() (map[string]string, error) {
	if !c.gate.IsValid() {
		return nil, ErrAuth
	}
	cookie, _ := c.gate.Get()
	header := map[string]string{"Cookie": strings.TrimSpace(cookie)}
	if c.userAgent != "" {
		header["User-Agent"] = c.userAgent
	}
	return header, nil
}

func withInclude(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	q := parsed.Query()
	q.Set("include", answerInclude)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

func scalarString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}
