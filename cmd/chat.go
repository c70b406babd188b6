package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tverro/ragchat/internal"
)

var chatConversationID string

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the answering service.

Messages are sent with the conversation history so the service can answer in
context. Slash commands control the session:

  /new            start a new conversation
  /open <id>      switch to an existing conversation
  /list           list your conversations
  /upload <file>  upload a document for retrieval context
  /signout        sign out and quit
  /quit           quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, session, err := requireSession(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		client := internal.NewClient(cfg)
		session.ConversationID = chatConversationID

		loop := &chatLoop{
			cfg:        cfg,
			client:     client,
			store:      store,
			session:    session,
			state:      internal.NewState(),
			normalizer: internal.NewNormalizer(),
			out:        cmd.OutOrStdout(),
		}
		return loop.run(cmd.Context(), cmd.InOrStdin())
	},
}

// chatLoop holds everything one interactive session mutates. All state
// changes happen in reaction to one input line at a time; there is no
// parallelism beyond the in-flight request itself.
type chatLoop struct {
	cfg        *internal.Config
	client     *internal.Client
	store      *internal.StateStore
	session    internal.Session
	state      *internal.State
	normalizer *internal.Normalizer
	out        io.Writer
}

func (l *chatLoop) run(ctx context.Context, in io.Reader) error {
	if l.session.ConversationID != "" {
		if err := l.openConversation(ctx, l.session.ConversationID); err != nil {
			return err
		}
	}

	fmt.Fprintf(l.out, "Signed in as %s. Type a question, or /help for commands.\n", l.session.Email)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(l.out, promptStyle.Render("> ")+" ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := l.handleCommand(ctx, line)
			if err != nil {
				fmt.Fprintln(l.out, statusStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		l.send(ctx, line)
	}
	return scanner.Err()
}

// send dispatches one query: classify for the progress label, append the
// pending user message so it is visible immediately, then settle the
// request into either an assistant message or a synthetic error message.
func (l *chatLoop) send(ctx context.Context, text string) {
	provisional := internal.Classify(text)

	// History snapshot excludes the pending message.
	history := append([]internal.Message(nil), l.state.Messages()...)

	userMsg := l.state.AppendUserMessage(text)
	fmt.Fprintln(l.out, renderMessage(userMsg))
	fmt.Fprintln(l.out, loadingStyle.Render(loadingLabel(provisional)))

	answer, err := l.client.SendMessage(ctx, text, l.session.Email, l.state.ConversationID(), history)
	if err != nil {
		internal.LogError("Send failed: %v", err)
		errMsg := l.state.AppendErrorMessage(err)
		fmt.Fprintln(l.out, renderMessage(errMsg))
		return
	}

	msg := l.normalizer.NormalizeAnswer(answer)
	l.state.AppendAssistantMessage(msg, answer.ConversationID)
	l.session.ConversationID = l.state.ConversationID()
	fmt.Fprintln(l.out, renderMessage(msg))

	l.refreshIndex(ctx)
}

func (l *chatLoop) handleCommand(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/help":
		fmt.Fprintln(l.out, "/new /open <id> /list /upload <file> /signout /quit")
	case "/quit", "/exit":
		return true, nil
	case "/signout":
		if err := internal.ClearSession(l.store); err != nil {
			return true, err
		}
		l.state.Clear()
		fmt.Fprintln(l.out, "Signed out.")
		return true, nil
	case "/new":
		l.newConversation(ctx)
	case "/open":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /open <conversation-id>")
		}
		return false, l.openConversation(ctx, fields[1])
	case "/list":
		conversations, err := l.client.ListConversations(ctx, l.session.Email)
		if err != nil {
			internal.LogWarn("Failed to list conversations: %v", err)
			return false, fmt.Errorf("could not load conversations")
		}
		for _, conv := range conversations {
			marker := "  "
			if conv.ID == l.state.ConversationID() {
				marker = "* "
			}
			fmt.Fprintf(l.out, "%s%s  %s (%d messages, %s)\n",
				marker, conv.ID, conv.Title, conv.TotalMessages, internal.FormatTimeAgo(conv.LastMessageAt))
		}
	case "/upload":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: /upload <file>")
		}
		l.upload(ctx, strings.Join(fields[1:], " "))
	default:
		return false, fmt.Errorf("unknown command %s, try /help", fields[0])
	}
	return false, nil
}

// newConversation creates a conversation server-side. On failure the local
// state degrades to an empty, conversation-less session instead of
// surfacing the error as fatal.
func (l *chatLoop) newConversation(ctx context.Context) {
	conv, err := l.client.CreateConversation(ctx, l.session.Email)
	if err != nil {
		internal.LogWarn("Failed to create conversation: %v", err)
		l.state.Clear()
		l.session.ConversationID = ""
		fmt.Fprintln(l.out, statusStyle.Render("Could not create a conversation; starting an unsaved one."))
		return
	}

	l.state.ReplaceAll(nil)
	l.state.SetConversationID(conv.ID)
	l.session.ConversationID = conv.ID
	fmt.Fprintf(l.out, "Started conversation %s.\n", conv.ID)
	l.refreshIndex(ctx)
}

// openConversation loads a conversation's history and replaces the live
// sequence wholesale.
func (l *chatLoop) openConversation(ctx context.Context, id string) error {
	records, err := l.client.ListMessages(ctx, id)
	if err != nil {
		internal.LogWarn("Failed to load conversation %s: %v", id, err)
		return fmt.Errorf("could not load conversation %s", id)
	}

	l.state.ReplaceAll(l.normalizer.NormalizeAll(records))
	l.state.SetConversationID(id)
	l.session.ConversationID = id

	for _, msg := range l.state.Messages() {
		fmt.Fprintln(l.out, renderMessage(msg))
	}
	return nil
}

// upload validates the file locally, then transfers it. Validation failures
// are a transient status line, never a conversation message.
func (l *chatLoop) upload(ctx context.Context, path string) {
	if err := internal.ValidateUpload(path, ""); err != nil {
		fmt.Fprintln(l.out, statusStyle.Render(err.Error()))
		return
	}

	fmt.Fprintln(l.out, loadingStyle.Render("Uploading document..."))
	if err := l.client.UploadDocument(ctx, path, l.session.Email, l.state.ConversationID()); err != nil {
		internal.LogError("Upload failed: %v", err)
		fmt.Fprintln(l.out, statusStyle.Render("Upload failed. Please try again."))
		return
	}

	confirmation := internal.UploadConfirmation(filepath.Base(path))
	l.state.AppendSystemMessage(confirmation)
	fmt.Fprintln(l.out, renderMessage(confirmation))
	l.refreshIndex(ctx)
}

// refreshIndex updates the local conversation cache after mutations, the
// way the original UI refreshed its sidebar. Failures only log.
func (l *chatLoop) refreshIndex(ctx context.Context) {
	conversations, err := l.client.ListConversations(ctx, l.session.Email)
	if err != nil {
		internal.LogDebug("Conversation refresh failed: %v", err)
		return
	}
	cache := internal.NewCacheManager(cacheDir(l.cfg))
	if err := cache.SaveIndex(&internal.ConversationIndex{
		Server:        l.cfg.ServerURL,
		Email:         l.session.Email,
		Conversations: conversations,
	}); err != nil {
		internal.LogDebug("Failed to save conversation index: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatConversationID, "conversation", "", "Resume an existing conversation by id")
}
