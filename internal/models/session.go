package models

// Conversation states. Idle means no flow is active and the main
// menu is shown.
const (
	StateIdle                 = ""
	StateCheckingSubscription = "checking_subscription"
	StateTeamName             = "team_name"
	StatePlayersList          = "players_list"
	StateConfirmation         = "confirmation"
	StateCaptainContacts      = "captain_contacts"
	StateTournamentInfo       = "tournament_info"
	StateFAQ                  = "faq"
	StateWaitingTeamName      = "waiting_team_name"
)
