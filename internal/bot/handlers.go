package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/internal/diagnostics"
	"github.com/example/vivalingo/internal/drills"
	"github.com/example/vivalingo/internal/excel"
	"github.com/example/vivalingo/internal/export"
	"github.com/example/vivalingo/internal/matcher"
	"github.com/example/vivalingo/internal/missions"
	"github.com/example/vivalingo/internal/session"
	"github.com/example/vivalingo/pkg/models"
)

// maxKnownTerms bounds the /known listing
const maxKnownTerms = 30

const helpText = `📖 Commands

Practice
/review - due vocabulary
/grammar - due grammar items
/errors [tag] - mistake notebook or due errors of a tag
/drill - grammar micro-drills
/verb [n] - verb precision drill
/produce <domain> | <text> - use 3 terms of a domain lexicon

Writing
/check <text> - catch common mistakes (plain messages do the same)
/write <text> - edit trail with suggestions
/register <style> | <text> - register rubric
/lab [n] | <text> - scenario lab constraints
/goal [n] | <text> - goal conversation with hidden targets

Content
/domains - coverage and today's domain pair
/learn <domain> - starter lexicon of a domain
/known [prefix] - search your vocabulary
/ingest <text> - extract new phrases from a text

Progress
/mission - today's mission, /submit <text> | <transcript> to hand it in
/diagnose <5 scores> - gap finder, one 1-5 score per area
/export - download your data
/reminders on|off - due review reminders`

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.TrimSpace(message.CommandArguments())
	chatID := message.Chat.ID

	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(message)
	case "help":
		err = b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
	case "menu":
		err = b.showMainMenu(chatID)
	case "check":
		err = b.handleCheck(chatID, args)
	case "review":
		err = b.sendVocabReviews(chatID)
	case "grammar":
		err = b.sendGrammarReviews(chatID)
	case "errors":
		err = b.sendErrors(chatID, args)
	case "domains":
		err = b.sendDomains(chatID)
	case "learn":
		err = b.sendLexicon(chatID, args)
	case "known":
		err = b.sendMessage(tgbotapi.NewMessage(chatID, b.knownTerms(chatID, args)))
	case "ingest":
		err = b.handleIngest(chatID, args)
	case "register":
		err = b.handleRegister(chatID, args)
	case "lab":
		err = b.handleLab(chatID, args)
	case "goal":
		err = b.handleGoal(chatID, args)
	case "write":
		err = b.handleWrite(chatID, args)
	case "drill":
		err = b.sendGrammarDrills(chatID)
	case "verb":
		err = b.sendVerbDrill(chatID, args)
	case "produce":
		err = b.handleProduce(chatID, args)
	case "mission":
		err = b.sendMission(chatID, displayName(message.From))
	case "submit":
		err = b.handleSubmit(chatID, displayName(message.From), args)
	case "export":
		err = b.handleExport(chatID)
	case "diagnose":
		err = b.handleDiagnose(chatID, args)
	case "reminders":
		err = b.handleReminders(chatID, args)
	case "import":
		err = b.handleImportCommand(message)
	default:
		msg := tgbotapi.NewMessage(chatID, "Unknown command. Use /help to see what I can do.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		err = b.sendMessage(msg)
	}
	return err
}

// handleMenu opens a main menu section from a button
func (b *Bot) handleMenu(_ context.Context, callback *tgbotapi.CallbackQuery, name string) error {
	chatID := callback.Message.Chat.ID
	switch name {
	case "review":
		return b.sendVocabReviews(chatID)
	case "grammar":
		return b.sendGrammarReviews(chatID)
	case "errors":
		return b.sendErrors(chatID, "")
	case "drill":
		return b.sendGrammarDrills(chatID)
	case "mission":
		return b.sendMission(chatID, displayName(callback.From))
	case "domains":
		return b.sendDomains(chatID)
	}
	if domain, ok := strings.CutPrefix(name, "learn="); ok {
		return b.sendLexicon(chatID, domain)
	}
	return b.showMainMenu(chatID)
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	return models.Chat{Username: user.UserName, FirstName: user.FirstName}.DisplayName()
}

func (b *Bot) handleStart(message *tgbotapi.Message) error {
	text := "👋 ¡Bienvenido a Vivalingo!\n\n" +
		"Practice advanced Spanish with spaced reviews, a mistake notebook, " +
		"register drills and daily missions.\n\n" +
		"Send me any Spanish text and I will check it for common mistakes. " +
		"Use /help for the full list of commands."
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

// showMainMenu shows the main menu
func (b *Bot) showMainMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Main menu, choose an option:")
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

// handleText treats plain messages as text to check
func (b *Bot) handleText(message *tgbotapi.Message) error {
	if strings.TrimSpace(message.Text) == "" {
		return nil
	}
	return b.handleCheck(message.Chat.ID, message.Text)
}

func (b *Bot) handleCheck(chatID int64, text string) error {
	if text == "" {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Usage: /check <text>"))
	}
	catches := b.sessions.Get(chatID).CheckText(text)
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatCatches(catches)))
}

func (b *Bot) sendVocabReviews(chatID int64) error {
	due := b.sessions.Get(chatID).DueVocab()
	if len(due) == 0 {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "No vocabulary due right now. Add some with /learn or /ingest."))
	}
	for i, item := range due {
		if i == b.config.ReviewBatchSize {
			break
		}
		msg := tgbotapi.NewMessage(chatID, formatVocabCard(item))
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{
			b.button("✅ Knew it", cbVocabPass, item.Key),
			b.button("❌ Missed", cbVocabFail, item.Key),
		}})
		if err := b.sendMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) sendGrammarReviews(chatID int64) error {
	due := b.sessions.Get(chatID).DueGrammar()
	if len(due) == 0 {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "No grammar items due. Try /drill."))
	}
	for i, item := range due {
		if i == b.config.ReviewBatchSize {
			break
		}
		msg := tgbotapi.NewMessage(chatID, formatGrammarCard(item))
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{
			b.button("✅ Got it", cbGrammarPass, item.Key),
			b.button("❌ Not yet", cbGrammarFail, item.Key),
		}})
		if err := b.sendMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

// sendErrors shows the notebook summary, or the due errors of one tag
func (b *Bot) sendErrors(chatID int64, tag string) error {
	sess := b.sessions.Get(chatID)
	if tag == "" {
		text := formatNotebook(sess.Tallies(), sess.TagCounts(), sess.ErrorTags())
		return b.sendMessage(tgbotapi.NewMessage(chatID, text))
	}

	due := sess.DueErrors(tag)
	if len(due) == 0 {
		return b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("No %s errors due.", tag)))
	}
	for i, item := range due {
		if i == b.config.ReviewBatchSize {
			break
		}
		msg := tgbotapi.NewMessage(chatID, formatErrorCard(tag, item))
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{
			b.button("✅ Fixed", cbErrorPass, tag, item.Key),
			b.button("❌ Still wrong", cbErrorFail, tag, item.Key),
		}})
		if err := b.sendMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) sendDomains(chatID int64) error {
	sess := b.sessions.Get(chatID)
	familiar, stretch, ok := sess.PickDomainPair()
	msg := tgbotapi.NewMessage(chatID, formatCoverage(sess.CoverageShare(), familiar, stretch, ok))
	if ok {
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{
			b.button("📚 "+familiar, cbMenu, "learn="+familiar),
			b.button("🚀 "+stretch, cbMenu, "learn="+stretch),
		}})
	}
	return b.sendMessage(msg)
}

// sendLexicon offers the domain's starter terms the learner does not know yet
func (b *Bot) sendLexicon(chatID int64, name string) error {
	domain, ok := b.catalog.Domain(name)
	if !ok {
		text := "Usage: /learn <domain>\nDomains: " + strings.Join(b.catalog.DomainNames(), ", ")
		return b.sendMessage(tgbotapi.NewMessage(chatID, text))
	}

	text, rows := b.lexiconView(chatID, domain)
	msg := tgbotapi.NewMessage(chatID, text)
	if len(rows) > 0 {
		msg.ReplyMarkup = createKeyboard(rows)
	}
	return b.sendMessage(msg)
}

// lexiconView counts a visit to domain and lists its terms the learner does
// not know yet, each with a learn button
func (b *Bot) lexiconView(chatID int64, domain content.TopicDomain) (string, [][]MenuButton) {
	sess := b.sessions.Get(chatID)
	sess.RecordExposure(domain.Domain)

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 %s\n%s\n", domain.Domain, domain.Sample)
	var rows [][]MenuButton
	for _, item := range domain.Lexicon {
		if len(rows) == b.config.LearnBatchSize {
			break
		}
		if sess.Knows(item.Term) {
			continue
		}
		fmt.Fprintf(&sb, "\n• %s: %s", item.Term, item.Meaning)
		rows = append(rows, []MenuButton{b.button("➕ "+item.Term, cbLearn, domain.Domain, item.Term)})
	}
	if len(rows) == 0 {
		sb.WriteString("\nYou already study every term of this domain.")
	}
	return sb.String(), rows
}

// knownTerms lists the learner's vocabulary starting with prefix
func (b *Bot) knownTerms(chatID int64, prefix string) string {
	terms := b.sessions.Get(chatID).Complete(prefix, maxKnownTerms)
	if len(terms) == 0 {
		if prefix == "" {
			return "Your vocabulary is empty. Add terms with /learn or /ingest."
		}
		return fmt.Sprintf("No known terms start with «%s».", prefix)
	}
	return "📘 " + strings.Join(terms, "\n📘 ")
}

func (b *Bot) handleIngest(chatID int64, text string) error {
	if text == "" {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Usage: /ingest <a Spanish text you read or heard>"))
	}
	res := b.sessions.Get(chatID).Ingest(text, b.config.MaxCandidates)

	domain := matcher.GeneralDomain
	if len(res.Domains) > 0 {
		domain = res.Domains[0]
	}
	msg := tgbotapi.NewMessage(chatID, formatIngest(res))
	var rows [][]MenuButton
	for _, c := range res.Candidates {
		rows = append(rows, []MenuButton{b.button("➕ "+c.Phrase, cbIngest, domain, c.Phrase)})
	}
	if len(rows) > 0 {
		msg.ReplyMarkup = createKeyboard(rows)
	}
	return b.sendMessage(msg)
}

func (b *Bot) handleRegister(chatID int64, args string) error {
	name, text := splitPipe(args)
	style, ok := b.catalog.Style(name)
	if !ok || text == "" {
		names := make([]string, 0, len(b.catalog.RegisterStyles))
		for _, s := range b.catalog.RegisterStyles {
			names = append(names, s.Name)
		}
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Usage: /register <style> | <text>\nStyles: "+strings.Join(names, ", ")))
	}
	scores := matcher.ScoreRegister(text, style.AudienceMarkers, b.catalog.RegisterMarkers)
	return b.sendMessage(tgbotapi.NewMessage(chatID, "🎭 "+style.Name+"\n"+formatScores(scores)))
}

func (b *Bot) handleLab(chatID int64, args string) error {
	head, text := splitPipe(args)
	idx, err := parseIndex(head, len(b.catalog.Scenarios))
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, err.Error()))
	}
	sc := b.catalog.Scenarios[idx]
	if text == "" {
		msg := fmt.Sprintf("🧪 %s\n%s\n\nConstraints:\n• %s\n\nAnswer with /lab %d | <your reply>",
			sc.Title, sc.Roles, strings.Join(sc.Constraints, "\n• "), idx+1)
		return b.sendMessage(tgbotapi.NewMessage(chatID, msg))
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, b.labReply(chatID, sc, text)))
}

// labReply logs the mistakes of a scenario reply, then checks its constraints
func (b *Bot) labReply(chatID int64, sc content.Scenario, text string) string {
	catches := b.sessions.Get(chatID).CheckText(text)
	results := matcher.CheckConstraints(text, sc.Constraints, b.catalog.ConstraintRules)
	return "🧪 " + sc.Title + "\n" + formatConstraints(results) + "\n\n" + formatCatches(catches)
}

func (b *Bot) handleGoal(chatID int64, args string) error {
	head, text := splitPipe(args)
	idx, err := parseIndex(head, len(b.catalog.GoalScenarios))
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, err.Error()))
	}
	g := b.catalog.GoalScenarios[idx]
	if text == "" {
		msg := fmt.Sprintf("🎯 %s\n%s\n\nThere are %d hidden targets. Answer with /goal %d | <your reply>",
			g.Title, g.Brief, len(g.HiddenTargets), idx+1)
		return b.sendMessage(tgbotapi.NewMessage(chatID, msg))
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, b.goalReply(chatID, g, text)))
}

// goalReply logs the mistakes of a goal conversation reply, then reveals
// which hidden targets it met
func (b *Bot) goalReply(chatID int64, g content.GoalScenario, text string) string {
	catches := b.sessions.Get(chatID).CheckText(text)
	results := matcher.CheckConstraints(text, g.HiddenTargets, b.catalog.GoalRules)
	return "🎯 " + g.Title + "\n" + formatConstraints(results) + "\n\n" + formatCatches(catches)
}

func (b *Bot) handleWrite(chatID int64, text string) error {
	if text == "" {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Usage: /write <paragraph>"))
	}
	edits := matcher.EditTrail(text, b.catalog.WritingGuide)
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatEdits(edits)))
}

func (b *Bot) sendGrammarDrills(chatID int64) error {
	for _, q := range b.drills.GrammarQuestions() {
		var row []MenuButton
		for _, opt := range q.Options {
			row = append(row, b.button(opt, cbGrammarDrill, q.Key, opt))
		}
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("📐 %s\n%s", q.Focus, q.Prompt))
		msg.ReplyMarkup = createKeyboard([][]MenuButton{row})
		if err := b.sendMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) sendVerbDrill(chatID int64, args string) error {
	idx, err := parseIndex(args, len(b.catalog.VerbDrills))
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, err.Error()))
	}
	q, err := b.drills.VerbQuestion(idx)
	if err != nil {
		return err
	}
	var row []MenuButton
	for _, verb := range q.Options {
		row = append(row, b.button(verb, cbVerbDrill, q.Key, verb))
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔤 %s (%d/%d)\n%s", q.Focus, idx+1, len(b.catalog.VerbDrills), q.Prompt))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{row})
	return b.sendMessage(msg)
}

func (b *Bot) handleProduce(chatID int64, args string) error {
	name, text := splitPipe(args)
	domain, ok := b.catalog.Domain(name)
	if !ok || text == "" {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Usage: /produce <domain> | <text using its terms>"))
	}
	res := drills.CheckProduction(text, domain.Lexicon)
	if len(res.Used) > 0 {
		b.sessions.Get(chatID).MarkActive(res.Used...)
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatProduction(res)))
}

func (b *Bot) todaysMission(name string) missions.Mission {
	return missions.ForDay(b.now(), name, b.catalog.MissionGrammar, b.catalog.MissionVerbs)
}

func (b *Bot) sendMission(chatID int64, name string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatMission(b.todaysMission(name))))
}

func (b *Bot) handleSubmit(chatID int64, name, args string) error {
	response, transcript := splitPipe(args)
	out, err := b.sessions.Get(chatID).SubmitMission(b.todaysMission(name), response, transcript)
	if errors.Is(err, session.ErrEmptyResponse) {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Usage: /submit <your text> | <optional transcript>"))
	}
	if err != nil {
		return err
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatMissionOutcome(out)))
}

// handleExport sends the session as a JSON document and an xlsx workbook
func (b *Bot) handleExport(chatID int64) error {
	datasets := export.FromSnapshot(b.sessions.Get(chatID).Snapshot())
	stamp := b.now().Format("2006-01-02")

	for _, format := range []export.Format{export.JSON, export.XLSX} {
		var buf bytes.Buffer
		if err := export.Write(&buf, format, datasets...); err != nil {
			return err
		}
		name := fmt.Sprintf("vivalingo-%s.%s", stamp, format)
		if err := b.sendDocument(chatID, name, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleDiagnose(chatID int64, args string) error {
	areas := b.catalog.DiagnosticAreas
	scores, err := parseScores(args, areas)
	if err != nil {
		usage := fmt.Sprintf("Usage: /diagnose <%d scores from 1 to 5>\nAreas in order: %s", len(areas), strings.Join(areas, ", "))
		return b.sendMessage(tgbotapi.NewMessage(chatID, usage))
	}
	rnd := rand.New(rand.NewSource(b.now().UnixNano()))
	gaps := diagnostics.GapResults(scores, b.catalog.DiagnosticIssues, rnd)
	focus := diagnostics.AdaptiveFocus(scores, areas)
	return b.sendMessage(tgbotapi.NewMessage(chatID, formatDiagnosis(gaps, focus, b.catalog.TrainingPlan)))
}

func (b *Bot) handleReminders(chatID int64, args string) error {
	switch strings.ToLower(args) {
	case "on", "off":
		enabled := strings.EqualFold(args, "on")
		if err := b.chats.SetReminders(chatID, enabled); err != nil {
			return err
		}
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Reminders "+boolToEnabledString(enabled)+"."))
	}

	chat, err := b.chats.GetByID(chatID)
	if err != nil {
		return err
	}
	text := "Reminders are " + boolToEnabledString(chat.RemindersEnabled) + ". Use /reminders on|off."
	if b.scheduler != nil {
		pending, err := b.scheduler.RunManualCheck(chatID)
		if err != nil {
			return err
		}
		if pending.Total() == 0 {
			text += "\nNothing is due right now."
		}
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func boolToEnabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func (b *Bot) handleImportCommand(message *tgbotapi.Message) error {
	if message.From == nil || !b.isAdmin(message.From.ID) {
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "This command is only available for administrators."))
	}
	b.setAwaitingUpload(message.Chat.ID, true)
	text := "Send an .xlsx or .csv file with the columns term, meaning, example, domain, register, part_of_speech.\n" +
		"A header row with those names may list them in any order."
	return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, text))
}

// handleDocument imports an uploaded vocabulary file into the admin's session
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	b.setAwaitingUpload(chatID, false)

	ext := strings.ToLower(filepath.Ext(message.Document.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Only .xlsx and .csv files can be imported."))
	}

	path, err := b.downloadDocument(ctx, message.Document.FileID, ext)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	cfg := excel.DefaultImportConfig()
	cfg.FilePath = path
	items, result, err := excel.ImportVocabulary(cfg)
	if err != nil {
		return err
	}
	added := b.sessions.Get(chatID).AddVocabulary(items...)

	text := fmt.Sprintf("Imported %d term(s) from %d row(s), %d new in your queue.", result.Imported, result.TotalProcessed, len(added))
	if len(result.Errors) > 0 {
		text += "\nSkipped:\n" + strings.Join(result.Errors, "\n")
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) downloadDocument(ctx context.Context, fileID, ext string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	f, err := os.CreateTemp("", "vivalingo-import-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return f.Name(), nil
}
