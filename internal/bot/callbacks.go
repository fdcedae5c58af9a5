package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vivalingo/internal/session"
	sr "github.com/example/vivalingo/internal/spaced_repetition"
	"github.com/example/vivalingo/pkg/models"
)

// Callback data codes
const (
	cbMenu         = "menu"
	cbVocabPass    = "v+"
	cbVocabFail    = "v-"
	cbGrammarPass  = "g+"
	cbGrammarFail  = "g-"
	cbErrorPass    = "e+"
	cbErrorFail    = "e-"
	cbLearn        = "learn"
	cbIngest       = "ing"
	cbGrammarDrill = "gd"
	cbVerbDrill    = "vd"
	cbToken        = "t"
)

// Telegram rejects callback data longer than this
const maxCallbackData = 64

// maxTokens bounds the token table; older buttons expire when it fills up
const maxTokens = 4096

var errBadCallback = errors.New("malformed callback data")

// callbackAction is parsed callback data
type callbackAction struct {
	Code string
	Args []string
}

// callbackArgs is how many arguments each code carries
var callbackArgs = map[string]int{
	cbMenu:         1,
	cbVocabPass:    1,
	cbVocabFail:    1,
	cbGrammarPass:  1,
	cbGrammarFail:  1,
	cbErrorPass:    2,
	cbErrorFail:    2,
	cbLearn:        2,
	cbIngest:       2,
	cbGrammarDrill: 2,
	cbVerbDrill:    2,
	cbToken:        1,
}

func encodeCallback(code string, args ...string) string {
	return strings.Join(append([]string{code}, args...), ":")
}

// parseCallback splits data into its code and arguments. The last argument
// keeps any further colons.
func parseCallback(data string) (callbackAction, error) {
	code, rest, found := strings.Cut(data, ":")
	n, known := callbackArgs[code]
	if !found || !known {
		return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}
	args := strings.SplitN(rest, ":", n)
	if len(args) != n {
		return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}
	for _, a := range args {
		if a == "" {
			return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
	}
	return callbackAction{Code: code, Args: args}, nil
}

func menuData(name string) string {
	return encodeCallback(cbMenu, name)
}

// callbackTokens stands in for callback data that is too long for Telegram
type callbackTokens struct {
	mu   sync.Mutex
	next int
	data map[string]string
}

func newCallbackTokens() *callbackTokens {
	return &callbackTokens{data: make(map[string]string)}
}

// shorten returns data unchanged when it fits, otherwise a token for it
func (t *callbackTokens) shorten(data string) string {
	if len(data) <= maxCallbackData {
		return data
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.data) >= maxTokens {
		t.data = make(map[string]string)
	}
	t.next++
	token := strconv.Itoa(t.next)
	t.data[token] = data
	return encodeCallback(cbToken, token)
}

func (t *callbackTokens) resolve(token string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.data[token]
	return data, ok
}

// button builds a menu button whose data always fits Telegram's limit
func (b *Bot) button(text, code string, args ...string) MenuButton {
	return MenuButton{Text: text, CallbackData: b.tokens.shorten(encodeCallback(code, args...))}
}

// HandleCallback handles callback queries from buttons
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil {
		return fmt.Errorf("callback message is nil")
	}
	chatID := callback.Message.Chat.ID

	action, err := parseCallback(callback.Data)
	if err == nil && action.Code == cbToken {
		data, ok := b.tokens.resolve(action.Args[0])
		if !ok {
			b.answer(callback, "This button has expired.")
			return nil
		}
		action, err = parseCallback(data)
	}
	if err != nil {
		b.answer(callback, "Unknown action")
		return err
	}

	sess := b.sessions.Get(chatID)
	var text string

	switch action.Code {
	case cbMenu:
		b.answer(callback, "")
		return b.handleMenu(ctx, callback, action.Args[0])

	case cbVocabPass, cbVocabFail:
		item, err := sess.ReviewVocab(action.Args[0], action.Code == cbVocabPass)
		if err != nil {
			return b.reviewFailed(callback, err)
		}
		text = formatReviewed(item.Key, item.Streak, sr.Interval(item.Streak), action.Code == cbVocabPass)

	case cbGrammarPass, cbGrammarFail:
		item, err := sess.ReviewGrammar(action.Args[0], action.Code == cbGrammarPass)
		if err != nil {
			return b.reviewFailed(callback, err)
		}
		text = formatReviewed(item.Payload.Focus, item.Streak, sr.Interval(item.Streak), action.Code == cbGrammarPass)

	case cbErrorPass, cbErrorFail:
		item, err := sess.ReviewError(action.Args[0], action.Args[1], action.Code == cbErrorPass)
		if err != nil {
			return b.reviewFailed(callback, err)
		}
		text = formatReviewed(item.Payload.Pattern+" → "+item.Payload.Correction, item.Streak, sr.Interval(item.Streak), action.Code == cbErrorPass)

	case cbLearn:
		text, err = b.learnTerm(action.Args[0], action.Args[1], chatID)
		if err != nil {
			b.answer(callback, "Unknown term")
			return err
		}

	case cbIngest:
		text = b.learnPhrase(ctx, chatID, action.Args[0], action.Args[1])

	case cbGrammarDrill:
		res, err := b.drills.GradeGrammar(action.Args[0], action.Args[1])
		if err != nil {
			b.answer(callback, "Unknown answer")
			return err
		}
		sess.AnswerGrammar(res)
		text = formatGrammarResult(res)

	case cbVerbDrill:
		index, convErr := strconv.Atoi(action.Args[0])
		if convErr != nil {
			b.answer(callback, "Unknown answer")
			return fmt.Errorf("%w: %q", errBadCallback, callback.Data)
		}
		res, err := b.drills.GradeVerb(index, action.Args[1])
		if err != nil {
			b.answer(callback, "Unknown answer")
			return err
		}
		sess.AnswerVerb(res)
		text = formatVerbResult(res)
	}

	b.answer(callback, "")
	edit := tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, text)
	return b.editMessage(edit)
}

// reviewFailed reports a review of an item the queue no longer holds.
// An unknown key means the button and the queue disagree, which is a bug.
func (b *Bot) reviewFailed(callback *tgbotapi.CallbackQuery, err error) error {
	if errors.Is(err, sr.ErrUnknownKey) {
		b.answer(callback, "This item is no longer in your queue.")
		return err
	}
	b.answer(callback, "Review failed")
	return err
}

func (b *Bot) answer(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		b.log.Warn("failed to answer callback", "err", err)
	}
}

// learnTerm adds a lexicon term of a topic domain to the vocabulary queue
func (b *Bot) learnTerm(domain, term string, chatID int64) (string, error) {
	d, ok := b.catalog.Domain(domain)
	if !ok {
		return "", fmt.Errorf("failed to find domain %q", domain)
	}
	for _, item := range d.Lexicon {
		if item.Term != term {
			continue
		}
		added := b.sessions.Get(chatID).AddVocabulary(item)
		if len(added) == 0 {
			return fmt.Sprintf("«%s» is already in your review queue.", term), nil
		}
		return fmt.Sprintf("Added «%s» (%s) to your review queue.", term, item.Meaning), nil
	}
	return "", fmt.Errorf("failed to find term %q in domain %q", term, domain)
}

// learnPhrase adds an ingested phrase, with a generated example when a
// generator is configured
func (b *Bot) learnPhrase(ctx context.Context, chatID int64, domain, phrase string) string {
	example, meaning := "", ""
	if b.generator != nil {
		ctx, cancel := context.WithTimeout(ctx, b.config.GenerateTimeout)
		defer cancel()
		example = b.generator.GenerateExampleWithFallback(ctx, phrase, domain, session.PlaceholderExample(phrase))
		if m, err := b.generator.DefinePhrase(ctx, phrase); err == nil && m != "" {
			meaning = m
		}
	}

	item := phraseItem(phrase, domain, example, meaning)
	added := b.sessions.Get(chatID).AddVocabulary(item)
	if len(added) == 0 {
		return fmt.Sprintf("«%s» is already in your review queue.", phrase)
	}
	return fmt.Sprintf("Added «%s» to your review queue.\n%s", phrase, item.Example)
}

// phraseItem is the vocabulary item for an ingested phrase; an empty meaning
// keeps the placeholder
func phraseItem(phrase, domain, example, meaning string) models.VocabItem {
	item := session.PhraseItem(phrase, domain, example)
	if meaning != "" {
		item.Meaning = meaning
	}
	return item
}
