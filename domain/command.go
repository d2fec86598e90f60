package domain

type CommandName string

const (
	StartSession  CommandName = "start"
	StopSession   CommandName = "stop"
	UserJoined    CommandName = "user_joined"
	UserLeft      CommandName = "user_left"
	JoinClicked   CommandName = "join_clicked"
	LeaveClicked  CommandName = "leave_clicked"
	RemoveClicked CommandName = "remove_clicked"
)

// Command is an interaction delivered by the host to the session loop.
type Command interface {
	Name() CommandName
}

type StartSessionCommand struct{}

func (StartSessionCommand) Name() CommandName { return StartSession }

type StopSessionCommand struct{}

func (StopSessionCommand) Name() CommandName { return StopSession }

type UserJoinedCommand struct {
	User User
}

func (UserJoinedCommand) Name() CommandName { return UserJoined }

type UserLeftCommand struct {
	UserID ParticipantID
}

func (UserLeftCommand) Name() CommandName { return UserLeft }

// JoinClickedCommand is sent when a user clicks the "join" button.
type JoinClickedCommand struct {
	UserID ParticipantID
}

func (JoinClickedCommand) Name() CommandName { return JoinClicked }

type LeaveClickedCommand struct {
	UserID ParticipantID
}

func (LeaveClickedCommand) Name() CommandName { return LeaveClicked }

// RemoveClickedCommand is sent by the remove button of a queue row.
// ClickerID is whoever clicked, RowParticipantID is the owner of the row.
type RemoveClickedCommand struct {
	ClickerID        ParticipantID
	RowParticipantID ParticipantID
}

func (RemoveClickedCommand) Name() CommandName { return RemoveClicked }
