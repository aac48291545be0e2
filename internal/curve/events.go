package curve

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

const (
	EventAmountOutCalculated = "AmountOutCalculated"
	EventAmountInCalculated  = "AmountInCalculated"
)

const curveEventsABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "amount_out", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "input", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "output", "type": "address"},
      {"indexed": false, "internalType": "bool", "name": "zero_for_one", "type": "bool"}
    ],
    "name": "AmountInCalculated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "amount_in", "type": "uint256"},
      {"indexed": false, "internalType": "address", "name": "input", "type": "address"},
      {"indexed": false, "internalType": "address", "name": "output", "type": "address"},
      {"indexed": false, "internalType": "bool", "name": "zero_for_one", "type": "bool"}
    ],
    "name": "AmountOutCalculated",
    "type": "event"
  }
]`

var (
	eventsABI     abi.ABI
	eventsABIOnce sync.Once
	eventsABIErr  error
)

// EventsABI returns the parsed ABI of the curve events.
func EventsABI() (abi.ABI, error) {
	eventsABIOnce.Do(func() {
		eventsABI, eventsABIErr = abi.JSON(strings.NewReader(curveEventsABIJSON))
	})
	return eventsABI, eventsABIErr
}

// CalculatedEvent is the decoded payload shared by both curve events. Amount
// is the caller-supplied amount: amount_in for AmountOutCalculated and
// amount_out for AmountInCalculated.
type CalculatedEvent struct {
	Name       string
	Amount     *uint256.Int
	Input      common.Address
	Output     common.Address
	ZeroForOne bool
}

// EventSink receives logs emitted by successful quotes.
type EventSink interface {
	Emit(log types.Log)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(types.Log)

func (f SinkFunc) Emit(log types.Log) { f(log) }

type discardSink struct{}

func (discardSink) Emit(types.Log) {}

// MemorySink keeps every emitted log in order.
type MemorySink struct {
	mu   sync.Mutex
	logs []types.Log
}

func (s *MemorySink) Emit(log types.Log) {
	s.mu.Lock()
	s.logs = append(s.logs, log)
	s.mu.Unlock()
}

func (s *MemorySink) Logs() []types.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Log, len(s.logs))
	copy(out, s.logs)
	return out
}

func encodeEvent(emitter common.Address, ev CalculatedEvent) (types.Log, error) {
	parsed, err := EventsABI()
	if err != nil {
		return types.Log{}, err
	}
	event, ok := parsed.Events[ev.Name]
	if !ok {
		return types.Log{}, fmt.Errorf("unknown event %q", ev.Name)
	}
	data, err := event.Inputs.Pack(ev.Amount.ToBig(), ev.Input, ev.Output, ev.ZeroForOne)
	if err != nil {
		return types.Log{}, fmt.Errorf("pack %s: %w", ev.Name, err)
	}
	return types.Log{
		Address: emitter,
		Topics:  []common.Hash{event.ID},
		Data:    data,
	}, nil
}

// DecodeEvent parses a log produced by a curve quote.
func DecodeEvent(log types.Log) (CalculatedEvent, error) {
	parsed, err := EventsABI()
	if err != nil {
		return CalculatedEvent{}, err
	}
	if len(log.Topics) == 0 {
		return CalculatedEvent{}, fmt.Errorf("log has no topics")
	}
	event, err := parsed.EventByID(log.Topics[0])
	if err != nil {
		return CalculatedEvent{}, err
	}
	values, err := event.Inputs.Unpack(log.Data)
	if err != nil {
		return CalculatedEvent{}, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	if len(values) != 4 {
		return CalculatedEvent{}, fmt.Errorf("unpack %s: unexpected outputs: %d", event.Name, len(values))
	}

	amount, ok := values[0].(*big.Int)
	if !ok {
		return CalculatedEvent{}, fmt.Errorf("unexpected amount type: %T", values[0])
	}
	ev := CalculatedEvent{Name: event.Name}
	ev.Amount, _ = uint256.FromBig(amount)
	if ev.Input, ok = values[1].(common.Address); !ok {
		return CalculatedEvent{}, fmt.Errorf("unexpected input type: %T", values[1])
	}
	if ev.Output, ok = values[2].(common.Address); !ok {
		return CalculatedEvent{}, fmt.Errorf("unexpected output type: %T", values[2])
	}
	if ev.ZeroForOne, ok = values[3].(bool); !ok {
		return CalculatedEvent{}, fmt.Errorf("unexpected zero_for_one type: %T", values[3])
	}
	return ev, nil
}
