package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"tutorgo/internal/config"
	"tutorgo/internal/models"
	"tutorgo/internal/prompt"
	"tutorgo/internal/service/ai"
	"tutorgo/internal/service/tutor"
	"tutorgo/internal/storage"
)

// cli drives the conversation engine from a line-oriented terminal loop.
// The session id is generated per launch and scopes the history listing.
type cli struct {
	service        *tutor.Service
	renderer       *glamour.TermRenderer
	sessionID      string
	conversationID int64
	subject        string
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("TUTORGO_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("TUTORGO_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	llm, err := ai.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init generation client: %v", err)
	}

	service, err := tutor.NewService(db, llm, nil)
	if err != nil {
		log.Fatalf("init tutor service: %v", err)
	}

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	app := &cli{
		service:   service,
		renderer:  renderer,
		sessionID: uuid.NewString(),
	}
	app.run()
}

func (a *cli) run() {
	fmt.Println("AI Tutor - Command Line Interface")
	fmt.Println("Type 'help' for commands or 'quit' to exit.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye! Happy learning!")
			return
		}
		input := strings.TrimSpace(line)
		lowered := strings.ToLower(input)

		switch {
		case input == "":
			continue
		case lowered == "quit" || lowered == "exit" || lowered == "q":
			fmt.Println("Goodbye! Happy learning!")
			return
		case lowered == "help":
			a.showHelp()
		case strings.HasPrefix(lowered, "learn "):
			a.startTutorial(strings.TrimSpace(input[len("learn "):]))
		case lowered == "history":
			a.showHistory()
		case strings.HasPrefix(lowered, "load "):
			a.loadConversation(strings.TrimSpace(input[len("load "):]))
		case lowered == "test" || lowered == "quiz" || lowered == "evaluate":
			a.requestEvaluation()
		case a.conversationID != 0:
			a.ask(input)
		default:
			fmt.Println("Please start a tutorial first with 'learn <subject>' or type 'help'")
		}
	}
}

func (a *cli) showHelp() {
	fmt.Println()
	fmt.Println("Available Commands:")
	fmt.Println("  learn <subject>  - Start a new tutorial (e.g., 'learn Python functions')")
	fmt.Println("  test/quiz        - Request an evaluation question")
	fmt.Println("  history          - Show previous learning sessions")
	fmt.Println("  load <id>        - Load a previous conversation by ID")
	fmt.Println("  help             - Show this help message")
	fmt.Println("  quit/exit/q      - Exit the program")
	fmt.Println()
	fmt.Println("During a tutorial session, just type your questions naturally.")
	fmt.Println()
}

func (a *cli) startTutorial(subject string) {
	if subject == "" {
		fmt.Println("Please specify a subject to learn about.")
		return
	}

	fmt.Printf("Starting tutorial on: %s\n", subject)
	fmt.Println("Generating tutorial content...")
	fmt.Println()

	result, err := a.service.StartTutorial(context.Background(), a.sessionID, subject)
	if err != nil {
		fmt.Printf("Error starting tutorial: %v\n", err)
		return
	}

	a.conversationID = result.ConversationID
	a.subject = subject

	a.printReply(result.Response)
	fmt.Println("You can now ask questions or type 'test' for evaluation!")
	fmt.Println()
}

func (a *cli) ask(input string) {
	fmt.Println("Thinking...")
	fmt.Println()

	// Evaluation keywords anywhere in the input force an evaluation turn.
	inputType := models.InputQuestion
	lowered := strings.ToLower(input)
	for _, word := range []string{"test", "quiz", "evaluate"} {
		if strings.Contains(lowered, word) {
			inputType = models.InputEvaluationRequest
			break
		}
	}

	result, err := a.service.ContinueConversation(context.Background(), a.conversationID, input, inputType)
	if err != nil {
		fmt.Printf("Error processing question: %v\n", err)
		return
	}
	a.printReply(result.Response)
}

func (a *cli) requestEvaluation() {
	if a.conversationID == 0 {
		fmt.Println("Please start a tutorial first with 'learn <subject>'")
		return
	}
	a.ask("Please test my understanding with a question.")
}

func (a *cli) showHistory() {
	conversations, err := a.service.ListConversationsBySession(context.Background(), a.sessionID)
	if err != nil {
		fmt.Printf("Error loading history: %v\n", err)
		return
	}
	if len(conversations) == 0 {
		fmt.Println("No previous learning sessions found.")
		return
	}

	fmt.Println()
	fmt.Println("Your Learning History:")
	for _, conv := range conversations {
		fmt.Printf("  ID: %d | Subject: %s | Started: %s\n",
			conv.ID, conv.Subject, conv.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println("Use 'load <id>' to continue a previous session.")
	fmt.Println()
}

func (a *cli) loadConversation(idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		fmt.Println("Please provide a valid conversation ID (number).")
		return
	}

	conv, err := a.service.GetConversation(context.Background(), id)
	if err != nil {
		fmt.Println("Conversation not found.")
		return
	}
	history, err := a.service.GetHistory(context.Background(), id)
	if err != nil {
		fmt.Printf("Error loading conversation: %v\n", err)
		return
	}

	a.conversationID = conv.ID
	a.subject = conv.Subject

	fmt.Printf("Loaded conversation about: %s\n", conv.Subject)
	if len(history) > prompt.MaxContextMessages {
		history = history[len(history)-prompt.MaxContextMessages:]
	}
	for _, msg := range history {
		fmt.Printf("  %s: %s\n", roleLabel(msg.Role), truncate(msg.Content, 100))
	}
	fmt.Println()
	fmt.Println("You can continue asking questions!")
	fmt.Println()
}

func (a *cli) printReply(text string) {
	fmt.Println("AI Tutor:")
	fmt.Println(strings.Repeat("=", 40))
	if a.renderer != nil {
		if rendered, err := a.renderer.Render(text); err == nil {
			fmt.Print(rendered)
		} else {
			fmt.Println(text)
		}
	} else {
		fmt.Println(text)
	}
	fmt.Println(strings.Repeat("=", 40))
	fmt.Println()
}

func roleLabel(r models.Role) string {
	if r == models.RoleUser {
		return "You"
	}
	return "Tutor"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
