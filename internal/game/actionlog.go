package game

// ActionLogEntry is one appended record of a taken action, tagged with the
// stage and the actor's table placement. Blind posts are logged as
// "Post SB" / "Post BB".
type ActionLogEntry struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	SeatNumber int    `json:"seat_number"`
	Action     string `json:"action"`
	Stage      string `json:"stage"`
	Amount     int    `json:"amount"`
}

// HandResult records the outcome of a completed hand. It is set exactly once
// per hand, at the moment the hand closes.
type HandResult struct {
	WinnerName  string `json:"winner_name"`
	SeatNumber  int    `json:"seat_number"`
	Position    string `json:"position"`
	AmountWon   int    `json:"amount_won"`
	Description string `json:"description"`
}

func (t *Table) logAction(p *Player, action string, amount int) {
	if p == nil {
		return
	}
	t.actionLog = append(t.actionLog, ActionLogEntry{
		Name:       p.Name,
		Position:   p.Position,
		SeatNumber: p.SeatNumber,
		Action:     action,
		Stage:      t.stage.String(),
		Amount:     amount,
	})
	t.logger.Debug("action logged",
		"player", p.Name,
		"position", p.Position,
		"seat", p.SeatNumber,
		"action", action,
		"stage", t.stage.String(),
		"amount", amount)
}
