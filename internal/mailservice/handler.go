package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/caskblog/internal/common"
	"golang.org/x/exp/rand"
)

const (
	newBlogTemplate   = "new_blog.html"
	defaultRetryDelay = 500 * time.Millisecond
)

// MailConfig holds the SMTP settings and the notification recipient.
type MailConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Sender    string
	Recipient string
	SiteURL   string
}

func NewMailService(mb common.MessageConsumer, cfg MailConfig, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          NewMailer(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Sender, NewTemplate()),
		logger:     logger,
		recipient:  cfg.Recipient,
		siteURL:    strings.TrimRight(cfg.SiteURL, "/"),
		retryDelay: defaultRetryDelay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// NotifyNewBlogs emails the recipient for every blog.created event until Close is called.
func (s *MailService) NotifyNewBlogs() {
	msgs, err := s.mb.Consume(common.BlogCreatedKey, common.BlogExchange, common.BlogCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event blogCreated
				err := json.Unmarshal(msg.Body, &event)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					msg.Ack(false)
					continue
				}

				payload := newBlogEmail{
					Title:  event.Title,
					Status: event.Status,
					Link:   s.siteURL + "/posts/" + event.Slug,
				}

				// using exponential backoff with jitter
				const maxRetries = 5

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(s.recipient, payload, newBlogTemplate)
					if err == nil {
						s.logger.Info("new blog email sent", slog.String("slug", event.Slug))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(s.retryDelay) << uint(attempt)))
					s.logger.Info("delaying new blog email", slog.String("slug", event.Slug), slog.Int("attempt", attempt), slog.Duration("delay", delay))

					// unacked, the event is redelivered once the channel closes
					select {
					case <-time.After(delay):
					case <-s.ctx.Done():
						s.logger.Info("stopping NotifyNewBlogs due to context cancellation")
						return
					}
				}

				if attempt == maxRetries {
					s.logger.Error("could not send new blog email", slog.String("slug", event.Slug), slog.String("error", err.Error()))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping NotifyNewBlogs due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
