package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	chatRepository "FintechAgent/internal/api/chat/repository"
	chatService "FintechAgent/internal/api/chat/service"
	"FintechAgent/internal/config"
	"FintechAgent/pkg/log"
	"FintechAgent/pkg/nlp"
	"FintechAgent/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the data files and build the knowledge base index",
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := loadAgent(cmd.Context())
		if err != nil {
			return err
		}
		defer agent.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "intents: %d\nresponses: %d\nknowledge base: %d questions indexed\n",
			len(agent.Dataset.Intents), len(agent.Dataset.Responses), agent.Retriever.Size())

		for _, name := range agent.Dataset.Intents.Names() {
			if name == "pay_bills" {
				continue
			}
			if _, ok := agent.Dataset.Responses[name]; !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: intent %q has no canned response\n", name)
			}
		}
		return nil
	},
}

// --- classify ---

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Print the intent resolved for a message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := quietLogger(cmd)

		agent, err := config.NewAgent(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer agent.Close()

		printMatch(cmd.OutOrStdout(), agent.Classifier.Match(strings.Join(args, " ")))
		return nil
	},
}

func printMatch(w io.Writer, m nlp.IntentResult) {
	if m.Intent == nlp.FallbackIntent {
		fmt.Fprintf(w, "%s (best score %.1f)\n", m.Intent, m.Score)
		return
	}
	fmt.Fprintf(w, "%s (score %.1f, keyword %q)\n", m.Intent, m.Score, m.Keyword)
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the dialog engine in-process",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		agent, err := loadAgent(cmd.Context())
		if err != nil {
			return err
		}
		defer agent.Close()

		logger := quietLogger(cmd)
		svc := chatService.New(
			logger,
			chatRepository.New(logger, chatRepository.DefaultSessionTTL),
			agent.Classifier,
			agent.Dataset.Responses,
			agent.Retriever,
			agent.Fallback,
			utils.New(),
		)

		return runChat(cmd.Context(), svc, userID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().String("user", "cli", "user id the conversation runs as")
}

// runChat reads one message per line until EOF or "exit".
func runChat(ctx context.Context, svc chatService.IChatService, userID string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "exit" || line == "quit":
			return nil
		case line != "":
			fmt.Fprintln(out, svc.Reply(ctx, userID, line))
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func loadAgent(ctx context.Context) (*config.Agent, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return config.NewAgent(ctx, cfg, log.NewDiscardLogger())
}

func quietLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	return logger
}
