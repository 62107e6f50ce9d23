package turn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sat8bit/brew/brew"
	buspkg "github.com/sat8bit/brew/bus"
	"github.com/sat8bit/brew/conversation"
	"github.com/sat8bit/brew/llm"
	"github.com/sat8bit/brew/message"
	"github.com/sat8bit/brew/prompt"
)

// FallbackText は、生成に失敗したときに会話へ差し込む固定の文面です。
const FallbackText = "Sorry, I couldn't generate a response. Please try again."

// Driver は、1ターン分の流れを駆動します。
// プロンプトの組み立て、生成サービスの呼び出し、応答の解釈、
// 会話ストアへの反映までを担います。
//
// 状態遷移は brew ごとに暗黙です。
//   - 未初期化: メッセージが1件もない。キャラクターが1人だけなら Open が
//     オープニングターンを起こす。
//   - 待機: ユーザー入力待ち。キャラクターが複数なら、Send の後も
//     Trigger で話者が選ばれるまで待機のまま。
//   - 生成中: Manager がターンを保持している間。完了・失敗のどちらでも
//     待機に戻る。リトライはしない。
type Driver struct {
	source  brew.Source
	store   conversation.Store
	llm     llm.LLM
	bus     buspkg.Bus
	turns   Manager
	timeout time.Duration
}

// NewDriver は、新しい Driver を生成します。
// timeout は生成呼び出し1回あたりの上限です。0以下なら無制限です。
func NewDriver(
	source brew.Source,
	store conversation.Store,
	llmInstance llm.LLM,
	bus buspkg.Bus,
	turns Manager,
	timeout time.Duration,
) *Driver {
	return &Driver{
		source:  source,
		store:   store,
		llm:     llmInstance,
		bus:     bus,
		turns:   turns,
		timeout: timeout,
	}
}

// Open は、チャットを開いたときの初期化ターンです。
// 過去のメッセージがなく、かつキャラクターがちょうど1人の brew に限り、
// そのキャラクターが舞台と自分を紹介するオープニングターンを1回だけ起こします。
// それ以外の brew では何もしません。
func (d *Driver) Open(ctx context.Context, brewID string) error {
	b, err := d.source.Brew(ctx, brewID)
	if err != nil {
		return fmt.Errorf("turn.Driver.Open: %w", err)
	}

	conv := d.store.Get(brewID)
	if len(conv.Messages) > 0 || len(b.Characters) != 1 {
		return nil
	}

	return d.generate(ctx, b, b.Characters[0], prompt.Opening(b))
}

// Send は、ユーザーの発言を会話に追加します。
// キャラクターが1人だけなら、そのまま応答ターンに入ります。
// 複数いる場合は追加だけ行い、Trigger による話者の選択を待ちます。
func (d *Driver) Send(ctx context.Context, brewID, text string) error {
	b, err := d.source.Brew(ctx, brewID)
	if err != nil {
		return fmt.Errorf("turn.Driver.Send: %w", err)
	}

	m := message.NewUser(text)
	if err := d.store.AppendMessage(brewID, m); err != nil {
		slog.Warn("turn.Driver: failed to persist user message", "brewId", brewID, "error", err)
	}
	d.broadcast(&message.Event{Kind: message.KindUser, BrewID: brewID, Message: m, At: time.Now()})

	if len(b.Characters) == 1 {
		return d.reply(ctx, b, b.Characters[0])
	}
	return nil
}

// Trigger は、名前で指定されたキャラクターの応答ターンを起こします。
// 複数キャラクターの brew で、アバターをタップして話者を選ぶ操作に相当します。
func (d *Driver) Trigger(ctx context.Context, brewID, characterName string) error {
	b, err := d.source.Brew(ctx, brewID)
	if err != nil {
		return fmt.Errorf("turn.Driver.Trigger: %w", err)
	}

	c, ok := b.CharacterByName(characterName)
	if !ok {
		return fmt.Errorf("turn.Driver.Trigger: character '%s' is not in brew '%s'", characterName, brewID)
	}

	return d.reply(ctx, b, c)
}

// Reset は、brew の会話を空に戻します。次の Open でオープニングからやり直せます。
func (d *Driver) Reset(ctx context.Context, brewID string) error {
	if err := d.store.Reset(brewID); err != nil {
		return fmt.Errorf("turn.Driver.Reset: %w", err)
	}
	d.broadcast(&message.Event{Kind: message.KindSystem, BrewID: brewID, Text: "Conversation cleared.", At: time.Now()})
	return nil
}

func (d *Driver) reply(ctx context.Context, b *brew.Brew, c *brew.Character) error {
	transcript := d.store.Get(b.ID).Transcript
	return d.generate(ctx, b, c, prompt.Reply(b, c, transcript))
}

// generate は、1回の生成ターンを実行します。
// 同じ brew でターンが進行中なら ErrTurnInFlight を返します。
// 生成サービスのエラーはここで握り、固定の代替メッセージを追加して
// nil を返します。呼び出し側にエラーとしては伝えません。
func (d *Driver) generate(ctx context.Context, b *brew.Brew, c *brew.Character, p string) error {
	if err := d.turns.TryAcquire(b.ID); err != nil {
		return err
	}
	defer d.turns.Release(b.ID)

	// 利用回数の計上はターンの開始通知として流すだけ。
	// 加算の成否がターンを止めることはない。
	d.broadcast(&message.Event{Kind: message.KindTurn, BrewID: b.ID, At: time.Now()})

	gctx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	text, err := d.llm.Generate(gctx, p)
	if err != nil {
		slog.Error("turn.Driver: generation failed", "brewId", b.ID, "character", c.Name, "error", err)
		fallback := message.NewFallback(FallbackText)
		if aerr := d.store.AppendMessage(b.ID, fallback); aerr != nil {
			slog.Warn("turn.Driver: failed to persist fallback message", "brewId", b.ID, "error", aerr)
		}
		d.broadcast(&message.Event{Kind: message.KindAI, BrewID: b.ID, Message: fallback, At: time.Now()})
		return nil
	}

	m := message.NewAI(message.ParseResponse(text))
	if err := d.store.AppendMessage(b.ID, m); err != nil {
		slog.Warn("turn.Driver: failed to persist AI message", "brewId", b.ID, "error", err)
	}
	d.broadcast(&message.Event{Kind: message.KindAI, BrewID: b.ID, Message: m, At: time.Now()})
	return nil
}

func (d *Driver) broadcast(e *message.Event) {
	if err := d.bus.Broadcast(e); err != nil {
		slog.Warn("turn.Driver: broadcast failed", "kind", e.Kind, "error", err)
	}
}
