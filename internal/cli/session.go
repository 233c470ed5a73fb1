package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shouni/gemini-promptcraft/pkg/credential"
	"github.com/shouni/gemini-promptcraft/pkg/domain"
	"github.com/shouni/gemini-promptcraft/pkg/imgutil"
	"github.com/shouni/gemini-promptcraft/pkg/utils"
	"github.com/shouni/gemini-promptcraft/pkg/workflow"
)

const webpQuality = 90

const helpText = `Commands:
  open <file>          select an image (PNG, JPEG or WEBP)
  remove               remove the selected image
  create               generate a prompt from the image
  style [name]         list styles, or apply one (Photorealistic, Illustration, Anime, Oil Painting, Pixel Art, None)
  edit <text>          replace the prompt text
  show                 print the current state
  copy [file]          print the prompt, or write it to a file
  generate             generate an image from the prompt
  save <file> [--webp] write the generated image to a file
  close                close the generated image
  start-over           clear the image and prompt
  history [list]       list saved prompts
  history load <n>     restore entry n from the list
  history clear        delete all saved prompts
  key [set|reset]      show, set or remove the API key
  dismiss              dismiss the current error
  help                 show this help
  quit                 leave the session`

// Session は対話モードの 1 セッションです。入出力を差し替えてテストできます。
type Session struct {
	wf    *workflow.Workflow
	creds *credential.Holder
	in    *bufio.Scanner
	out   io.Writer

	// readSecret は API キーを入力させます。nil なら通常の 1 行入力を使います。
	readSecret func() (string, error)
}

// NewSession は Session を生成します。
func NewSession(wf *workflow.Workflow, creds *credential.Holder, in io.Reader, out io.Writer) *Session {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Session{wf: wf, creds: creds, in: scanner, out: out}
}

// Run は入力が尽きるか quit が入力されるまでコマンドを処理します。
func (s *Session) Run(ctx context.Context) error {
	if _, ok := s.creds.Get(); !ok {
		fmt.Fprintln(s.out, "No API key is configured. Enter your Gemini API key to continue.")
		if err := s.setKey(); err != nil {
			return err
		}
	}
	fmt.Fprintln(s.out, "Type 'help' for a list of commands.")
	s.render()

	for {
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "! %s\n", describeError(err))
		}
		if quit {
			return nil
		}
	}
}

// Exec は 1 行分のコマンドを実行します。quit のとき true を返します。
func (s *Session) Exec(ctx context.Context, line string) (bool, error) {
	name, rest := splitCommand(line)
	switch name {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "show":
		s.render()
	case "open":
		return false, s.open(rest)
	case "remove":
		s.wf.RemoveImage()
		s.render()
	case "create":
		fmt.Fprintln(s.out, "Generating prompt...")
		if err := s.wf.CreatePrompt(ctx); err != nil {
			return false, err
		}
		s.render()
	case "style":
		return false, s.style(rest)
	case "edit":
		if err := s.wf.EditPrompt(rest); err != nil {
			return false, err
		}
		s.render()
	case "copy":
		return false, s.copyPrompt(rest)
	case "generate":
		fmt.Fprintln(s.out, "Generating image...")
		if err := s.wf.GenerateImage(ctx); err != nil {
			return false, err
		}
		s.render()
	case "save":
		return false, s.save(rest)
	case "close":
		s.wf.CloseResult()
		s.render()
	case "start-over":
		s.wf.StartOver()
		s.render()
	case "history":
		return false, s.history(ctx, rest)
	case "key":
		return false, s.key(rest)
	case "dismiss":
		s.wf.DismissError()
		s.render()
	default:
		return false, fmt.Errorf("unknown command %q (type 'help')", name)
	}
	return false, nil
}

func (s *Session) open(path string) error {
	if path == "" {
		return errors.New("usage: open <file>")
	}
	img, err := imgutil.ReadImageFile(path)
	if err != nil {
		return err
	}
	if err := s.wf.SelectImage(img); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Selected %s (%s, %d bytes)\n", filepath.Base(path), img.MimeType, len(img.Data))
	s.render()
	return nil
}

func (s *Session) style(name string) error {
	if name == "" {
		current := s.wf.State().SelectedStyle
		for _, st := range domain.Styles() {
			marker := " "
			if st == current {
				marker = "*"
			}
			fmt.Fprintf(s.out, " %s %s\n", marker, st)
		}
		return nil
	}
	if err := s.wf.SelectStyle(domain.Style(name)); err != nil {
		return err
	}
	s.render()
	return nil
}

func (s *Session) copyPrompt(path string) error {
	text, err := s.wf.PromptText()
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(s.out, text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("プロンプトの書き込みに失敗しました: %w", err)
	}
	fmt.Fprintf(s.out, "Prompt written to %s\n", path)
	return nil
}

func (s *Session) save(args string) error {
	fields := strings.Fields(args)
	var (
		path   string
		toWebP bool
	)
	for _, f := range fields {
		if f == "--webp" {
			toWebP = true
			continue
		}
		path = f
	}
	if path == "" {
		return errors.New("usage: save <file> [--webp]")
	}

	generated := s.wf.State().GeneratedImage
	if generated == nil {
		return errors.New("no generated image to save")
	}
	img := *generated
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		toWebP = true
	}
	if toWebP && img.MimeType != imgutil.MimeWebP {
		converted, err := imgutil.ConvertToWebP(img, webpQuality)
		if err != nil {
			return err
		}
		img = converted
	}

	written, err := imgutil.WriteImageFile(path, img)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Image saved to %s\n", written)
	return nil
}

func (s *Session) history(ctx context.Context, args string) error {
	sub, rest := splitCommand(args)
	switch sub {
	case "", "list":
		printHistory(s.out, s.wf.History())
	case "load":
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return errors.New("usage: history load <n>")
		}
		if err := s.wf.LoadHistory(n - 1); err != nil {
			return err
		}
		s.render()
	case "clear":
		if !s.confirm("Clear all saved prompts?") {
			fmt.Fprintln(s.out, "Cancelled.")
			return nil
		}
		s.wf.ClearHistory(ctx)
		fmt.Fprintln(s.out, "History cleared.")
	default:
		return fmt.Errorf("unknown history command %q", sub)
	}
	return nil
}

func (s *Session) key(args string) error {
	switch strings.TrimSpace(args) {
	case "":
		if _, ok := s.creds.Get(); ok {
			fmt.Fprintln(s.out, "API key: set")
		} else {
			fmt.Fprintln(s.out, "API key: not set")
		}
	case "set":
		return s.setKey()
	case "reset":
		if !s.confirm("Remove the API key for this session?") {
			fmt.Fprintln(s.out, "Cancelled.")
			return nil
		}
		s.creds.Clear()
		fmt.Fprintln(s.out, "API key removed.")
	default:
		return errors.New("usage: key [set|reset]")
	}
	return nil
}

func (s *Session) setKey() error {
	fmt.Fprint(s.out, "Gemini API key: ")
	value, err := s.secret()
	if err != nil {
		return err
	}
	if !s.creds.Set(value) {
		return errors.New("API key cannot be empty")
	}
	fmt.Fprintln(s.out, "API key saved for this session.")
	return nil
}

func (s *Session) secret() (string, error) {
	if s.readSecret != nil {
		v, err := s.readSecret()
		fmt.Fprintln(s.out)
		return v, err
	}
	line, ok := s.readLine()
	if !ok {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return line, nil
}

func (s *Session) confirm(question string) bool {
	return confirm(s.in, s.out, question)
}

// confirm は y/N の確認を取ります。y または yes 以外は拒否として扱います。
func confirm(in *bufio.Scanner, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	if !in.Scan() {
		return false
	}
	line := in.Text()
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Session) render() {
	renderState(s.out, s.wf.State())
}

func renderState(w io.Writer, st workflow.State) {
	fmt.Fprintf(w, "[%s]", st.Stage)
	if st.HasImage() {
		fmt.Fprintf(w, " image: %s, %d bytes", st.CurrentImage.MimeType, len(st.CurrentImage.Data))
	} else {
		fmt.Fprint(w, " no image")
	}
	if st.Stage == workflow.EditingPrompt {
		fmt.Fprintf(w, " | style: %s", st.SelectedStyle)
	}
	fmt.Fprintln(w)

	if st.Stage == workflow.EditingPrompt {
		fmt.Fprintf(w, "  prompt: %s\n", st.EditablePrompt)
	}
	if st.ResultOpen && st.GeneratedImage != nil {
		fmt.Fprintf(w, "  generated image ready (%s, %d bytes). Use 'save <file>' or 'close'.\n",
			st.GeneratedImage.MimeType, len(st.GeneratedImage.Data))
	}
	if st.LastError != "" {
		fmt.Fprintf(w, "  error: %s (type 'dismiss' to hide)\n", st.LastError)
	}
}

func printHistory(w io.Writer, records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No saved prompts yet.")
		return
	}
	for i, r := range records {
		fmt.Fprintf(w, "%2d. %s  [%s]  %s\n",
			i+1, r.CreatedAt().Format("2006-01-02 15:04"), r.Style(), utils.Truncate(r.BasePrompt, 60))
	}
}

func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}

// describeError はガード違反を利用者向けの文に置き換えます。
func describeError(err error) string {
	switch {
	case errors.Is(err, workflow.ErrNoImage):
		return "select an image first ('open <file>')"
	case errors.Is(err, workflow.ErrEmptyPrompt):
		return "the prompt is empty"
	case errors.Is(err, workflow.ErrBusy):
		return "a request is already in progress"
	case errors.Is(err, workflow.ErrStage):
		return "that command is not available right now"
	case errors.Is(err, workflow.ErrUnknownStyle):
		return "unknown style (type 'style' to list them)"
	case errors.Is(err, workflow.ErrNoRecord):
		return "no such history entry"
	default:
		return err.Error()
	}
}
