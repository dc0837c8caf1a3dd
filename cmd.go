package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/melikesraoz/ai-chatbot-2/chat"
	"github.com/melikesraoz/ai-chatbot-2/events"
	"github.com/melikesraoz/ai-chatbot-2/llm"
	"github.com/melikesraoz/ai-chatbot-2/session"
	"github.com/melikesraoz/ai-chatbot-2/store"
	"github.com/melikesraoz/ai-chatbot-2/utils"
)

var (
	flagConfig   string
	flagModel    string
	flagMode     string
	flagProvider string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ai-chatbot",
	Short: "Terminal chat client with persistent conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", utils.GetConfigPath(), "config file path")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "model identifier (overrides config)")
	rootCmd.Flags().StringVar(&flagMode, "mode", "", "chat mode: chat, hotel or medical")
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "provider: openai or anthropic")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "warn", "log level")
}

func runChat() error {
	cfg, err := utils.LoadConfig(flagConfig)
	if err != nil {
		return err
	}

	log, err := utils.SetupLogging(flagLogLevel, utils.GetLogPath())
	if err != nil {
		return err
	}

	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	bus := events.NewBus(log)
	defer func() { _ = bus.Close() }()

	chatStore := chat.New(kv, chat.WithNotifier(bus), chat.WithLogger(log))

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	model := cfg.Chat.DefaultModel
	if flagModel != "" {
		model = flagModel
	}
	mode := cfg.Chat.DefaultMode
	if flagMode != "" {
		mode = flagMode
	}

	sess := session.New(chatStore, provider, model, mode, session.WithLogger(log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go drainEvents(ctx, bus, log)

	if chatStore.CurrentID() == "" {
		chatStore.CreateConversation()
	}

	fmt.Printf("ai-chatbot (%s, %s mode) — type /help for commands\n", provider.Name(), mode)
	return repl(ctx, chatStore, sess)
}

// openStore opens the configured persistence backend.
func openStore(cfg *utils.Config) (store.Store, error) {
	switch cfg.Data.Backend {
	case "", "bolt":
		return store.NewBoltStore(cfg.Data.DBPath)
	case "sqlite":
		return store.NewSQLiteStore(cfg.Data.DBPath)
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Data.Backend)
	}
}

// buildProvider picks the provider: the one requested by flag, or the
// first enabled one with a credential.
func buildProvider(cfg *utils.Config) (llm.Provider, error) {
	build := func(name string) (llm.Provider, bool) {
		pc, ok := cfg.LLMProviders[name]
		if !ok {
			return nil, false
		}
		c := llm.Config{
			ProviderName: pc.DisplayName,
			APIKey:       pc.APIKey,
			BaseURL:      pc.BaseURL,
			Model:        pc.DefaultModel,
			Models:       pc.Models,
			MaxTokens:    pc.MaxTokens,
			Temperature:  pc.Temperature,
		}
		switch name {
		case "openai":
			return llm.NewOpenAIProvider(c), true
		case "anthropic":
			return llm.NewAnthropicProvider(c), true
		}
		return nil, false
	}

	if flagProvider != "" {
		p, ok := build(flagProvider)
		if !ok {
			return nil, errors.Errorf("unknown provider %q", flagProvider)
		}
		return p, nil
	}
	for _, name := range []string{"openai", "anthropic"} {
		if pc, ok := cfg.LLMProviders[name]; ok && pc.Enabled {
			if p, ok := build(name); ok {
				return p, nil
			}
		}
	}
	// Fall back to openai so the key error surfaces at request time
	if p, ok := build("openai"); ok {
		return p, nil
	}
	return nil, errors.New("no completion provider configured")
}

// drainEvents acks change notifications; at debug level it also logs
// them, which is handy when another front end drives the store.
func drainEvents(ctx context.Context, bus *events.Bus, log zerolog.Logger) {
	ch, err := bus.Subscribe(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to subscribe to change events")
		return
	}
	for msg := range ch {
		log.Debug().RawJSON("event", msg.Payload).Msg("conversation changed")
		msg.Ack()
	}
}

func repl(ctx context.Context, chatStore *chat.Store, sess *session.Session) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, chatStore, sess, line); quit {
				return nil
			}
			continue
		}

		currentID := chatStore.CurrentID()
		if currentID == "" {
			currentID = chatStore.CreateConversation()
		}
		if sess.Busy(currentID) {
			fmt.Println("still waiting for a response, hang on")
			continue
		}
		if err := sess.Send(ctx, currentID, line); err != nil {
			fmt.Println(err)
			continue
		}
		printLastMessage(chatStore, currentID)
	}
}

func runCommand(ctx context.Context, chatStore *chat.Store, sess *session.Session, line string) (quit bool) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println(`commands:
  /new                 start a new conversation
  /list                list conversations
  /select <n>          switch to conversation n from /list
  /rename <title>      rename the current conversation
  /title               generate a title for the current conversation
  /clear               clear the current conversation's messages
  /delete              delete the current conversation
  /edit <n> <text>     edit message n and regenerate its reply
  /regen [n]           regenerate a bot message (default: the last one)
  /lang <tr|en|de|ru>  set the conversation language
  /mode <mode>         set the chat mode (chat, hotel, medical)
  /model <model>       set the model identifier
  /history             show the current conversation
  /reset               delete all conversations
  /quit                exit`)

	case "/new":
		chatStore.CreateConversation()
		fmt.Println("started a new conversation")

	case "/list":
		for i, conv := range chatStore.Conversations() {
			marker := " "
			if conv.ID == chatStore.CurrentID() {
				marker = "*"
			}
			fmt.Printf("%s %2d. %s (%d messages, %s)\n", marker, i+1, conv.Title, len(conv.Messages), conv.Language)
		}

	case "/select":
		if conv, ok := conversationAt(chatStore, args); ok {
			chatStore.SelectConversation(conv.ID)
			fmt.Println("switched to:", conv.Title)
		} else {
			fmt.Println("usage: /select <n>")
		}

	case "/rename":
		if rest == "" {
			fmt.Println("usage: /rename <title>")
			break
		}
		chatStore.RenameConversation(chatStore.CurrentID(), rest)

	case "/title":
		title, err := sess.GenerateTitle(ctx, chatStore.CurrentID())
		if err != nil {
			fmt.Println(err)
			break
		}
		fmt.Println("renamed to:", title)

	case "/clear":
		chatStore.ClearConversation(chatStore.CurrentID())

	case "/delete":
		chatStore.DeleteConversation(chatStore.CurrentID())

	case "/edit":
		msg, ok := messageAt(chatStore, args)
		if !ok || len(args) < 2 {
			fmt.Println("usage: /edit <n> <new text>")
			break
		}
		newText := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		if err := sess.EditUserMessage(ctx, chatStore.CurrentID(), msg.ID, newText); err != nil {
			fmt.Println(err)
			break
		}
		printLastMessage(chatStore, chatStore.CurrentID())

	case "/regen":
		currentID := chatStore.CurrentID()
		var target chat.Message
		if len(args) > 0 {
			msg, ok := messageAt(chatStore, args)
			if !ok {
				fmt.Println("usage: /regen [n]")
				break
			}
			target = msg
		} else {
			conv, ok := chatStore.Current()
			if !ok || len(conv.Messages) == 0 {
				break
			}
			target = conv.Messages[len(conv.Messages)-1]
		}
		if err := sess.Regenerate(ctx, currentID, target.ID); err != nil {
			fmt.Println(err)
			break
		}
		printLastMessage(chatStore, currentID)

	case "/lang":
		if len(args) != 1 {
			fmt.Println("usage: /lang <tr|en|de|ru>")
			break
		}
		chatStore.SetConversationLanguage(chatStore.CurrentID(), chat.Language(args[0]))

	case "/mode":
		if len(args) == 1 {
			sess.SetMode(args[0])
		}

	case "/model":
		if len(args) == 1 {
			sess.SetModel(args[0])
		}

	case "/history":
		conv, ok := chatStore.Current()
		if !ok {
			break
		}
		for i, m := range conv.Messages {
			edited := ""
			if m.Edited {
				edited = " (edited)"
			}
			fmt.Printf("%2d. [%s %s]%s %s\n", i+1, m.Sender, m.Timestamp, edited, m.Text)
		}

	case "/reset":
		chatStore.ClearAll()
		fmt.Println("all conversations deleted")

	default:
		fmt.Println("unknown command, try /help")
	}
	return false
}

// conversationAt resolves a 1-based /list index.
func conversationAt(chatStore *chat.Store, args []string) (chat.Conversation, bool) {
	if len(args) < 1 {
		return chat.Conversation{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return chat.Conversation{}, false
	}
	convs := chatStore.Conversations()
	if n < 1 || n > len(convs) {
		return chat.Conversation{}, false
	}
	return convs[n-1], true
}

// messageAt resolves a 1-based /history index in the current
// conversation.
func messageAt(chatStore *chat.Store, args []string) (chat.Message, bool) {
	if len(args) < 1 {
		return chat.Message{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return chat.Message{}, false
	}
	conv, ok := chatStore.Current()
	if !ok || n < 1 || n > len(conv.Messages) {
		return chat.Message{}, false
	}
	return conv.Messages[n-1], true
}

func printLastMessage(chatStore *chat.Store, conversationID string) {
	conv, ok := chatStore.Conversation(conversationID)
	if !ok || len(conv.Messages) == 0 {
		return
	}
	last := conv.Messages[len(conv.Messages)-1]
	if last.Sender == chat.SenderBot {
		fmt.Println(last.Text)
	}
}
