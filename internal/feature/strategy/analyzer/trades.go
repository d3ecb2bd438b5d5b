package analyzer

import (
	"slices"

	"stock_analyzer/internal/feature/strategy/domain/entity"
)

// ExtractTrades turns position changes into trade events priced at the close
// of the bar where the change happened. Events are ordered by timestamp; on a
// shared timestamp a SELL precedes a BUY.
func ExtractTrades(s Series, positions []int) []entity.TradeEvent {
	var buys, sells []entity.TradeEvent
	for i := 1; i < len(positions) && i < len(s); i++ {
		switch positions[i] {
		case 1:
			buys = append(buys, entity.TradeEvent{Time: s[i].Time, Price: s[i].Close, Action: entity.ActionBuy})
		case -1:
			sells = append(sells, entity.TradeEvent{Time: s[i].Time, Price: s[i].Close, Action: entity.ActionSell})
		}
	}

	events := make([]entity.TradeEvent, 0, len(buys)+len(sells))
	events = append(events, buys...)
	events = append(events, sells...)
	slices.SortStableFunc(events, func(a, b entity.TradeEvent) int {
		if c := a.Time.Compare(b.Time); c != 0 {
			return c
		}
		return actionRank(a.Action) - actionRank(b.Action)
	})
	return events
}

func actionRank(a entity.Action) int {
	if a == entity.ActionSell {
		return 0
	}
	return 1
}
