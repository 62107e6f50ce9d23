package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sat8bit/brew/accounting"
	"github.com/sat8bit/brew/brew"
	buspkg "github.com/sat8bit/brew/bus"
	"github.com/sat8bit/brew/buslog"
	"github.com/sat8bit/brew/catalog"
	"github.com/sat8bit/brew/conversation"
	"github.com/sat8bit/brew/llm"
	"github.com/sat8bit/brew/message"
	"github.com/sat8bit/brew/renderer"
	"github.com/sat8bit/brew/studio"
	"github.com/sat8bit/brew/turn"
)

func main() {
	// --- コマンドライン引数のパース ---
	var (
		brewID   = flag.String("brew", "", "Brew id to chat in (defaults to the first brew in the catalog)")
		dataDir  = flag.String("data", "./data", "Directory for conversation state and transcripts")
		model    = flag.String("model", "gemini-1.5-flash", "Generation model")
		timeout  = flag.Duration("timeout", 60*time.Second, "Per-turn generation timeout")
		inspire  = flag.String("inspire", "", "RSS feed URL; print scene ideas from it and exit")
		portrait = flag.String("portrait", "", "Description; generate a character portrait into the data dir and exit")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C シグナルで cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if *inspire != "" {
		runInspire(ctx, *inspire)
		return
	}
	if *portrait != "" {
		runPortrait(ctx, *portrait, *dataDir)
		return
	}

	// --- Brew のデータソースを決定する ---
	var (
		source  brew.Source
		counter accounting.Counter
	)
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		pg, err := catalog.New(ctx, databaseURL)
		if err != nil {
			log.Fatalf("failed to connect to catalog: %v", err)
		}
		defer pg.Close()
		source = pg
		counter = pg
	} else {
		pool, err := brew.NewPool()
		if err != nil {
			log.Fatalf("failed to load brew pool: %v", err)
		}
		source = pool
	}

	// --- 対象の Brew を選ぶ ---
	target := *brewID
	if target == "" {
		brews, err := source.Brews(ctx)
		if err != nil {
			log.Fatalf("failed to list brews: %v", err)
		}
		if len(brews) == 0 {
			log.Fatal("no brews available")
		}
		target = brews[0].ID
	}
	b, err := source.Brew(ctx, target)
	if err != nil {
		log.Fatalf("failed to load brew %s: %v", target, err)
	}

	bus := buspkg.NewMemoryBus()
	defer bus.Close()

	// ログはバスにも流して、チャット画面の中に出す
	slog.SetDefault(slog.New(buslog.NewBusHandler(
		bus,
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)))

	// --- レンダラーを初期化 ---
	consoleRenderer := renderer.NewConsoleRenderer()
	if err := consoleRenderer.Render(ctx, bus); err != nil {
		log.Fatalf("failed to initialize console renderer: %v", err)
	}

	markdownRenderer := renderer.NewMarkdownRenderer(filepath.Join(*dataDir, "transcripts"), b.Name)
	if err := markdownRenderer.Render(ctx, bus); err != nil {
		log.Fatalf("failed to initialize markdown renderer: %v", err)
	}

	// --- 利用回数の計上（バックエンド接続があるときだけ） ---
	if counter != nil {
		accounting.NewAccountant(source, counter).Start(ctx, bus)
	}

	// --- 会話ストアとターンドライバー ---
	store := conversation.NewFileStore(*dataDir)
	llmClient := llm.NewGemini(ctx, llm.Config{
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Project:  os.Getenv("PROJECT_ID"),
		Location: os.Getenv("LOCATION"),
		Model:    *model,
	})
	driver := turn.NewDriver(source, store, llmClient, bus, turn.NewKeyedManager(), *timeout)

	// 開始メッセージを送信
	var names []string
	for _, c := range b.Characters {
		names = append(names, c.Name)
	}
	if err := bus.Broadcast(&message.Event{
		Kind:   message.KindSystem,
		BrewID: b.ID,
		Text:   fmt.Sprintf("%s — Scene: %s. Characters: %s. Type /as <name> to pick a speaker, /reset to start over, /quit to leave.", b.Name, b.Scene.Name, strings.Join(names, ", ")),
		At:     time.Now(),
	}); err != nil {
		panic(fmt.Errorf("failed to broadcast initial message: %w", err))
	}

	// キャラクターが1人だけの brew は、開いた時点でオープニングターンが走る
	if err := driver.Open(ctx, b.ID); err != nil && err != turn.ErrTurnInFlight {
		slog.Error("opening turn failed", "error", err)
	}

	// --- 入力ループ ---
	go readInput(ctx, cancel, driver, b)

	// ctx.Done() 待ち
	<-ctx.Done()
	time.Sleep(500 * time.Millisecond) // 残りの出力を拾う余裕
	fmt.Println("")
	fmt.Println("Shutting down...")
}

// readInput は、標準入力の1行を1つの操作に割り当てます。
// 素の行はユーザー発言、"/as 名前" は話者の指名（アバタータップ相当）です。
func readInput(ctx context.Context, cancel context.CancelFunc, driver *turn.Driver, b *brew.Brew) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			cancel()
			return
		case line == "/reset":
			if err := driver.Reset(ctx, b.ID); err != nil {
				slog.Error("reset failed", "error", err)
				continue
			}
			if err := driver.Open(ctx, b.ID); err != nil && err != turn.ErrTurnInFlight {
				slog.Error("opening turn failed", "error", err)
			}
		case strings.HasPrefix(line, "/as "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "/as "))
			if err := driver.Trigger(ctx, b.ID, name); err != nil {
				if err == turn.ErrTurnInFlight {
					slog.Warn("a turn is already in flight, wait for it to finish")
					continue
				}
				slog.Error("trigger failed", "error", err)
			}
		default:
			if err := driver.Send(ctx, b.ID, line); err != nil {
				if err == turn.ErrTurnInFlight {
					slog.Warn("a turn is already in flight, wait for it to finish")
					continue
				}
				slog.Error("send failed", "error", err)
			}
		}
	}
	cancel()
}

// runInspire は、RSSフィードから舞台のネタを取り出して表示します。
func runInspire(ctx context.Context, feedURL string) {
	fetcher := studio.NewRSSFetcher(feedURL, 5)
	ideas, err := fetcher.Fetch(ctx)
	if err != nil {
		log.Fatalf("failed to fetch scene ideas: %v", err)
	}
	for _, idea := range ideas {
		fmt.Printf("- %s\n  %s\n  %s\n", idea.Title, idea.Summary, idea.SourceURL)
	}
}

// runPortrait は、説明文からキャラクターのポートレートを生成して保存します。
func runPortrait(ctx context.Context, description, dataDir string) {
	apiKey := os.Getenv("STABILITY_API_KEY")
	if apiKey == "" {
		log.Fatal("set STABILITY_API_KEY environment variable")
	}

	client := studio.NewImageClient(apiKey)
	png, err := client.Generate(ctx, description, studio.CreateCharacter)
	if err != nil {
		log.Fatalf("failed to generate portrait: %v", err)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	path := filepath.Join(dataDir, fmt.Sprintf("portrait-%s.png", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, png, 0644); err != nil {
		log.Fatalf("failed to write portrait: %v", err)
	}
	fmt.Printf("portrait written to %s\n", path)
}
