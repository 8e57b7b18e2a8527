package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"
	"github.com/commedeschamps/KieliSan/core/telegram/keyboard"
	"github.com/commedeschamps/KieliSan/internal/content"
	"github.com/commedeschamps/KieliSan/internal/quiz"
)

// Kind tags an Action.
type Kind int

const (
	KindMenu Kind = iota + 1
	KindNumberList
	KindNumber
	KindNumberRandom
	KindNumberNext
	KindNumberToggle
	KindNumberQuiz
	KindCompareList
	KindCompareNumber
	KindCompareView
	KindQuizModes
	KindQuizStart
	KindQuizAnswer
	KindQuizToggle
	KindQuizSubmit
)

// Card detail levels.
const (
	CardShort = "short"
	CardFull  = "full"
)

// Compare views. A single culture is "culture:<code>".
const (
	ViewCompare = "compare"
	ViewFull    = "full"
	ViewLocal   = "local"
	viewCulture = "culture:"
)

// CultureView is the view showing one culture.
func CultureView(code string) string { return viewCulture + code }

// Action is an inline button press decoded from callback data.
type Action struct {
	Kind   Kind
	Pool   quiz.Pool
	Mode   quiz.Mode
	Index  int
	Choice string
	Number string
	View   string
}

// ErrBadAction is returned for callback data that does not decode.
var ErrBadAction = errors.New("bot: malformed callback data")

// Callback uniques. Quiz uniques are prefixed with the pool id.
const (
	uniqMenu          = "menu"
	uniqNumberList    = "num_list"
	uniqNumber        = "num"
	uniqNumberNext    = "num_next"
	uniqNumberToggle  = "num_toggle"
	uniqNumberQuiz    = "num_quiz"
	uniqCompareList   = "cmp_list"
	uniqCompareNumber = "cmp_num"
	uniqCompareView   = "cmp_view"

	suffixModes  = "_modes"
	suffixStart  = "_mode"
	suffixAnswer = "_ans"
	suffixToggle = "_tog"
	suffixSubmit = "_sub"

	payloadRandom = "random"
	sep           = "|"
)

var quizSuffixes = []string{suffixModes, suffixStart, suffixAnswer, suffixToggle, suffixSubmit}

// Uniques lists every callback unique the bot understands.
func Uniques() []string {
	out := []string{
		uniqMenu, uniqNumberList, uniqNumber, uniqNumberNext, uniqNumberToggle,
		uniqNumberQuiz, uniqCompareList, uniqCompareNumber, uniqCompareView,
	}
	for _, pool := range []quiz.Pool{quiz.PoolNumbers, quiz.PoolCompare} {
		for _, s := range quizSuffixes {
			out = append(out, string(pool)+s)
		}
	}
	return out
}

// Encode renders a as callback unique and payload.
func (a Action) Encode() (string, string) {
	switch a.Kind {
	case KindMenu:
		return uniqMenu, ""
	case KindNumberList:
		return uniqNumberList, ""
	case KindNumber:
		return uniqNumber, a.Number
	case KindNumberRandom:
		return uniqNumber, payloadRandom
	case KindNumberNext:
		return uniqNumberNext, a.Number
	case KindNumberToggle:
		return uniqNumberToggle, a.Number + sep + a.View
	case KindNumberQuiz:
		return uniqNumberQuiz, a.Number + sep + a.Choice
	case KindCompareList:
		return uniqCompareList, ""
	case KindCompareNumber:
		return uniqCompareNumber, a.Number
	case KindCompareView:
		return uniqCompareView, a.Number + sep + a.View
	case KindQuizModes:
		return string(a.Pool) + suffixModes, ""
	case KindQuizStart:
		return string(a.Pool) + suffixStart, string(a.Mode)
	case KindQuizAnswer:
		return string(a.Pool) + suffixAnswer, strconv.Itoa(a.Index) + sep + a.Choice
	case KindQuizToggle:
		return string(a.Pool) + suffixToggle, strconv.Itoa(a.Index) + sep + a.Choice
	case KindQuizSubmit:
		return string(a.Pool) + suffixSubmit, strconv.Itoa(a.Index)
	}
	return "", ""
}

// Button builds an inline button that triggers a.
func (a Action) Button(text string) keyboard.InlineBtn {
	unique, data := a.Encode()
	return keyboard.InlineBtn{Text: text, Unique: unique, Data: data}
}

// DecodeAction parses callback unique and payload.
func DecodeAction(unique, payload string) (Action, error) {
	switch unique {
	case uniqMenu:
		return Action{Kind: KindMenu}, nil
	case uniqNumberList:
		return Action{Kind: KindNumberList}, nil
	case uniqNumber:
		if payload == payloadRandom {
			return Action{Kind: KindNumberRandom}, nil
		}
		if !isNumber(payload) {
			return Action{}, ErrBadAction
		}
		return Action{Kind: KindNumber, Number: payload}, nil
	case uniqNumberNext:
		return Action{Kind: KindNumberNext, Number: payload}, nil
	case uniqNumberToggle:
		parts, err := callbacks.SplitPayload(payload, sep, 2)
		if err != nil || !isNumber(parts[0]) || (parts[1] != CardShort && parts[1] != CardFull) {
			return Action{}, ErrBadAction
		}
		return Action{Kind: KindNumberToggle, Number: parts[0], View: parts[1]}, nil
	case uniqNumberQuiz:
		parts, err := callbacks.SplitPayload(payload, sep, 2)
		if err != nil || !isNumber(parts[0]) {
			return Action{}, ErrBadAction
		}
		return Action{Kind: KindNumberQuiz, Number: parts[0], Choice: parts[1]}, nil
	case uniqCompareList:
		return Action{Kind: KindCompareList}, nil
	case uniqCompareNumber:
		if !content.IsCompareNumber(payload) {
			return Action{}, ErrBadAction
		}
		return Action{Kind: KindCompareNumber, Number: payload}, nil
	case uniqCompareView:
		parts, err := callbacks.SplitPayload(payload, sep, 2)
		if err != nil || !content.IsCompareNumber(parts[0]) || !validView(parts[1]) {
			return Action{}, ErrBadAction
		}
		return Action{Kind: KindCompareView, Number: parts[0], View: parts[1]}, nil
	}
	return decodeQuizAction(unique, payload)
}

func decodeQuizAction(unique, payload string) (Action, error) {
	for _, suffix := range quizSuffixes {
		prefix, ok := strings.CutSuffix(unique, suffix)
		if !ok {
			continue
		}
		pool := quiz.Pool(prefix)
		if !pool.Valid() {
			return Action{}, ErrBadAction
		}
		a := Action{Pool: pool}
		switch suffix {
		case suffixModes:
			a.Kind = KindQuizModes
			return a, nil
		case suffixStart:
			mode, err := quiz.ParseMode(payload)
			if err != nil {
				return Action{}, ErrBadAction
			}
			a.Kind, a.Mode = KindQuizStart, mode
			return a, nil
		case suffixSubmit:
			idx, err := strconv.Atoi(payload)
			if err != nil || idx < 0 {
				return Action{}, ErrBadAction
			}
			a.Kind, a.Index = KindQuizSubmit, idx
			return a, nil
		default:
			parts, err := callbacks.SplitPayload(payload, sep, 2)
			if err != nil {
				return Action{}, ErrBadAction
			}
			idx, err := strconv.Atoi(parts[0])
			if err != nil || idx < 0 {
				return Action{}, ErrBadAction
			}
			a.Kind = KindQuizAnswer
			if suffix == suffixToggle {
				a.Kind = KindQuizToggle
			}
			a.Index, a.Choice = idx, parts[1]
			return a, nil
		}
	}
	return Action{}, ErrBadAction
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func validView(v string) bool {
	switch v {
	case ViewCompare, ViewFull, ViewLocal:
		return true
	}
	code, ok := strings.CutPrefix(v, viewCulture)
	if !ok {
		return false
	}
	_, known := content.CultureByCode(code)
	return known
}
