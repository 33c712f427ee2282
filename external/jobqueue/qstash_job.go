package jobqueue

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

const maxPreviewBodyBytes = 4096

// QStash rejects ':' and other separators in deduplication ids.
var dedupUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// Header values replaced by *** in previews.
var redactedHeaders = []string{"Authorization", "Upstash-Forward-X-Internal-Job-Token"}

// publishJob is a validated publish call, ready to send or to preview.
type publishJob struct {
	path       string
	targetURL  string
	publishURL string
	body       []byte
	delay      string
	retries    int
	dedupID    string
}

func (p *QStashPublisher) newPublishJob(path string, payload any, delay time.Duration, deduplicationID string) (publishJob, error) {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return publishJob{}, crerr.New("job path is required")
	}

	baseURL, err := httpBaseURL(p.cfg.BaseURL)
	if err != nil {
		return publishJob{}, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := httpBaseURL(p.cfg.TargetBaseURL)
	if err != nil {
		return publishJob{}, crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return publishJob{}, crerr.Wrap(err, "marshal job payload")
	}

	targetURL := targetBaseURL + path
	return publishJob{
		path:       path,
		targetURL:  targetURL,
		publishURL: baseURL + "/v2/publish/" + targetURL,
		body:       body,
		delay:      delaySeconds(delay),
		retries:    p.cfg.Retries,
		dedupID:    dedupUnsafe.ReplaceAllString(strings.TrimSpace(deduplicationID), "-"),
	}, nil
}

// headers returns the Upstash control headers. QStash strips the
// Upstash-Forward- prefix and passes the job token through to our route.
func (j publishJob) headers(token, jobToken string) map[string]string {
	h := map[string]string{
		"Authorization":  "Bearer " + token,
		"Content-Type":   "application/json",
		"Upstash-Method": "POST",
	}
	if j.retries > 0 {
		h["Upstash-Retries"] = strconv.Itoa(j.retries)
	}
	if j.delay != "0s" {
		h["Upstash-Delay"] = j.delay
	}
	if j.dedupID != "" {
		h["Upstash-Deduplication-Id"] = j.dedupID
	}
	if jobToken != "" {
		h["Upstash-Forward-X-Internal-Job-Token"] = jobToken
	}
	return h
}

// curlPreview renders an equivalent curl command with secrets redacted, for
// logs and span attributes.
func (j publishJob) curlPreview() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST ")
	_, _ = buf.WriteString(shellQuote(j.publishURL))

	headers := j.headers("***", "***")
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		value := headers[key]
		if slices.Contains(redactedHeaders, key) {
			value = "***"
		}
		_, _ = buf.WriteString(" -H ")
		_, _ = buf.WriteString(shellQuote(key + ": " + value))
	}

	body := string(j.body)
	if len(body) > maxPreviewBodyBytes {
		body = body[:maxPreviewBodyBytes] + "...(truncated)"
	}
	_, _ = buf.WriteString(" -d ")
	_, _ = buf.WriteString(shellQuote(body))
	return buf.String()
}

func delaySeconds(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.Itoa(int(delay.Round(time.Second).Seconds())) + "s"
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}
