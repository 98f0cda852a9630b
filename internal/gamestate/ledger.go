package gamestate

import "fmt"

// DefaultStreakBonusPerDay is the flat XP bonus per streak day added to
// every grant. Mission payouts go through the same path, so long streaks
// amplify mission rewards too. Kept as a tunable because that compounding
// is game design, not arithmetic.
const DefaultStreakBonusPerDay = 10

// Ledger holds the two per-user currencies. XP only ever grows; diamonds
// are spendable and floored at zero.
type Ledger struct {
	XP       int `json:"xp"`
	Diamonds int `json:"diamonds"`

	// BonusPerDay overrides DefaultStreakBonusPerDay when > 0.
	BonusPerDay int `json:"-"`
}

// XPGrant describes one applied grant, for notifications and the workout
// response payload.
type XPGrant struct {
	Base   int    `json:"base"`
	Bonus  int    `json:"bonus"`
	Reason string `json:"reason,omitempty"`
	Total  int    `json:"total"`
}

// Notification renders the human-readable toast line for the grant.
func (g XPGrant) Notification() string {
	msg := fmt.Sprintf("+%d XP", g.Base)
	if g.Bonus > 0 {
		msg += fmt.Sprintf(" (+%d streak bonus)", g.Bonus)
	}
	if g.Reason != "" {
		msg += " — " + g.Reason
	}
	return msg
}

// GrantXP adds amount plus the streak bonus to the ledger and returns the
// applied grant. Negative amounts are clamped to zero: XP never decreases.
func (l *Ledger) GrantXP(amount, streak int, reason string) XPGrant {
	if amount < 0 {
		amount = 0
	}
	perDay := l.BonusPerDay
	if perDay <= 0 {
		perDay = DefaultStreakBonusPerDay
	}
	bonus := 0
	if streak > 0 {
		bonus = streak * perDay
	}
	l.XP += amount + bonus
	return XPGrant{Base: amount, Bonus: bonus, Reason: reason, Total: amount + bonus}
}

// AddDiamonds is unconditional addition.
func (l *Ledger) AddDiamonds(n int) int {
	if n > 0 {
		l.Diamonds += n
	}
	return l.Diamonds
}

// ConsumeDiamonds spends up to n diamonds. Over-consumption silently floors
// the balance at zero rather than failing.
func (l *Ledger) ConsumeDiamonds(n int) int {
	if n > 0 {
		l.Diamonds -= n
		if l.Diamonds < 0 {
			l.Diamonds = 0
		}
	}
	return l.Diamonds
}
