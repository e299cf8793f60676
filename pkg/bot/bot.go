package bot

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/samber/lo"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"nejetool/pkg/action"
	"nejetool/pkg/convert"
	"nejetool/pkg/proto"
)

// NewBot exposes the action table as Telegram commands and burns received
// pictures onto the engraver. Handlers run concurrently, so dev must be
// wrapped with proto.Locked.
func NewBot(token string, dev proto.Control, conv *convert.Converter, logger *zap.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token: token,
		Poller: &tele.LongPoller{
			Timeout: 30 * time.Second,
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	return newBot(b, dev, conv, logger), nil
}

func newBot(b *tele.Bot, dev proto.Control, conv *convert.Converter, logger *zap.Logger) *Bot {
	return &Bot{
		b:    b,
		dev:  dev,
		conv: conv,
		log:  logger.With(zap.String("via", "telegram")),
	}
}

type Bot struct {
	b    *tele.Bot
	dev  proto.Control
	conv *convert.Converter
	log  *zap.Logger
}

// local actions read files on the daemon host, pictures arrive as photos.
var local = []string{"upload_pic"}

func (b *Bot) handleActions() {
	for _, a := range action.All() {
		if lo.Contains(local, a.Name) {
			continue
		}

		name := a.Name
		b.b.Handle("/"+name, func(c tele.Context) error {
			return c.Reply(b.run(name, c.Message().Payload))
		})
	}

	b.b.Handle("/help", func(c tele.Context) error {
		return c.Reply(b.help())
	})
}

func (b *Bot) handlePictures() {
	b.b.Handle(tele.OnPhoto, func(c tele.Context) error {
		return c.Reply(b.fetchAndUpload(&c.Message().Photo.File, false))
	})

	b.b.Handle(tele.OnDocument, func(c tele.Context) error {
		doc := c.Message().Document
		svg := strings.EqualFold(doc.MIME, "image/svg+xml") || strings.HasSuffix(strings.ToLower(doc.FileName), ".svg")
		return c.Reply(b.fetchAndUpload(&doc.File, svg))
	})
}

func (b *Bot) run(name, payload string) string {
	inv, err := action.Parse(nil, name, strings.Fields(payload))
	if err != nil {
		return fmt.Sprintf("%s failed: %s", name, err)
	}

	if err := inv(b.dev); err != nil {
		b.log.With(zap.String("action", name), zap.Error(err)).Info("failed")
		return fmt.Sprintf("%s failed: %s", name, err)
	}

	b.log.With(zap.String("action", name), zap.String("arg", payload)).Debug("done")
	return "OK"
}

func (b *Bot) fetchAndUpload(file *tele.File, svg bool) string {
	rc, err := b.b.File(file)
	if err != nil {
		return fmt.Sprintf("download failed: %s", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Sprintf("download failed: %s", err)
	}

	return b.upload(data, svg)
}

func (b *Bot) upload(data []byte, svg bool) string {
	img, err := b.conv.Decode(data, svg)
	if err != nil {
		return fmt.Sprintf("decode failed: %s", err)
	}

	n, err := b.dev.UploadPicture(b.conv.Encode(img))
	if err != nil {
		return fmt.Sprintf("upload failed: %s", err)
	}

	return fmt.Sprintf("Uploaded %s", bytesize.New(float64(n)).String())
}

func (b *Bot) help() string {
	var lines []string
	for _, a := range action.All() {
		if lo.Contains(local, a.Name) {
			continue
		}
		usage := "/" + a.Name
		if a.Arg != "" {
			usage += " <" + a.Arg + ">"
		}
		lines = append(lines, fmt.Sprintf("%s - %s", usage, a.Help))
	}
	lines = append(lines, "send a picture - convert and upload it")
	return strings.Join(lines, "\n")
}

func (b *Bot) Start() {
	b.handleActions()
	b.handlePictures()
	go b.b.Start()
}

// Stop asks the poller to quit and waits for it until ctx is done. A long
// poll in flight is only interrupted by its own timeout, so the wait is
// bounded by ctx rather than by telebot.
func (b *Bot) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.b.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		b.log.Warn("telegram poller still busy, leaving it behind")
		return ctx.Err()
	}
}
