package message

// Kind は、バスに流れるイベントの種別です。
type Kind string

const (
	KindUser   Kind = "user"
	KindAI     Kind = "ai"
	KindSystem Kind = "system"
	KindError  Kind = "error"
	KindLog    Kind = "log"
	KindTurn   Kind = "turn" // ターン開始の通知。利用回数の計上に使う。
)
