package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shouni/gemini-promptcraft/pkg/credential"
	"github.com/shouni/gemini-promptcraft/pkg/imgutil"
	"github.com/shouni/gemini-promptcraft/pkg/relay"
	"github.com/shouni/gemini-promptcraft/pkg/workflow"
)

var (
	renderOutput string
	serveAddr    string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive image → prompt → image session",
	Args:  cobra.NoArgs,
	RunE:  runSession,
}

var describeCmd = &cobra.Command{
	Use:   "describe <image-file>",
	Short: "Print a text-to-image prompt describing an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

var renderCmd = &cobra.Command{
	Use:   "render <prompt>",
	Short: "Generate an image from a prompt",
	Long: `Generate an image from a prompt and write it to a file.

Examples:
  promptcraft render "a red bicycle, in the style of pixel art" -o bike.png
  promptcraft render "a quiet harbor at dawn" -o harbor.webp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Saved prompt history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved prompts, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved prompts",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP relay using the server-side API key",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(sessionCmd, describeCmd, renderCmd, historyCmd, serveCmd)
	historyCmd.AddCommand(historyListCmd, historyClearCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "generated.png", "Output file (extension is added from the image type when missing)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from PROMPTCRAFT_ADDR or :8080)")
}

func runSession(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	store, closer, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	creds := credential.NewHolder()
	creds.Set(cfg.APIKey.Reveal())

	wf, err := workflow.New(ctx, gen, store, creds)
	if err != nil {
		return err
	}

	session := NewSession(wf, creds, cmd.InOrStdin(), cmd.OutOrStdout())
	if fd := int(os.Stdin.Fd()); cmd.InOrStdin() == os.Stdin && term.IsTerminal(fd) {
		session.readSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
	}
	return session.Run(ctx)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	key, ok := cfg.Credential().Get()
	if !ok {
		return errors.New("GEMINI_API_KEY is not set")
	}
	img, err := imgutil.ReadImageFile(args[0])
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	prompt, err := gen.DescribeImage(cmd.Context(), img, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), prompt)
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	key, ok := cfg.Credential().Get()
	if !ok {
		return errors.New("GEMINI_API_KEY is not set")
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	img, err := gen.RenderImage(cmd.Context(), strings.Join(args, " "), key)
	if err != nil {
		return err
	}
	out := *img
	if strings.HasSuffix(strings.ToLower(renderOutput), ".webp") && out.MimeType != imgutil.MimeWebP {
		if out, err = imgutil.ConvertToWebP(out, webpQuality); err != nil {
			return err
		}
	}
	written, err := imgutil.WriteImageFile(renderOutput, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Image saved to %s\n", written)
	return nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, closer, err := openHistory(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	printHistory(cmd.OutOrStdout(), store.Load(cmd.Context()))
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	store, closer, err := openHistory(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	if !confirm(bufio.NewScanner(cmd.InOrStdin()), cmd.OutOrStdout(), "Clear all saved prompts?") {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	if err := store.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	creds := cfg.Credential()
	if _, ok := creds.Get(); !ok {
		// 起動は許可し、各リクエストで 500 を返す
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: GEMINI_API_KEY is not set; generation requests will fail")
	}

	h, err := relay.NewHandler(gen, creds)
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}
	return relay.Serve(cmd.Context(), relay.NewServer(addr, relay.NewRouter(h, nil)))
}
