package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/apperror"
	"github.com/stackit-qa/backend/internal/database"
	"github.com/stackit-qa/backend/internal/models"
)

var (
	testDB  *gorm.DB
	testSvc *Service
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stackit_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("could not get connection string: %v", err)
	}

	svc, err := database.Open(dsn)
	if err != nil {
		log.Fatalf("could not connect to test database: %v", err)
	}
	testDB = svc.GetDB()
	testSvc = New(testDB)

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("could not terminate postgres container: %v", err)
	}
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	err := testDB.Exec(
		"TRUNCATE TABLE votes, notifications, question_tags, answers, questions, tags, users RESTART IDENTITY CASCADE",
	).Error
	require.NoError(t, err)
}

func createUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	require.NoError(t, testDB.Create(&user).Error)
	return user
}

func createQuestion(t *testing.T, author models.User, tags ...string) models.Question {
	t.Helper()
	if len(tags) == 0 {
		tags = []string{"go"}
	}
	question, err := testSvc.CreateQuestion(context.Background(), author,
		fmt.Sprintf("How do I solve this problem, %s?", author.Username),
		"A description long enough to pass validation with room to spare.",
		tags)
	require.NoError(t, err)
	return question
}

func createAnswer(t *testing.T, author models.User, questionID int) models.Answer {
	t.Helper()
	answer, err := testSvc.CreateAnswer(context.Background(), author, questionID,
		"Use the documented approach instead of rolling your own.")
	require.NoError(t, err)
	return answer
}

func reloadUser(t *testing.T, id int) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, testDB.First(&user, id).Error)
	return user
}

func reloadQuestion(t *testing.T, id int) models.Question {
	t.Helper()
	var question models.Question
	require.NoError(t, testDB.First(&question, id).Error)
	return question
}

func reloadAnswer(t *testing.T, id int) models.Answer {
	t.Helper()
	var answer models.Answer
	require.NoError(t, testDB.First(&answer, id).Error)
	return answer
}

func tagByName(t *testing.T, name string) models.Tag {
	t.Helper()
	var tag models.Tag
	require.NoError(t, testDB.Where("name = ?", name).First(&tag).Error)
	return tag
}

func allVotes(t *testing.T) []models.Vote {
	t.Helper()
	var votes []models.Vote
	require.NoError(t, testDB.Find(&votes).Error)
	return votes
}

func notificationsFor(t *testing.T, userID int) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	require.NoError(t, testDB.Where("recipient_id = ?", userID).Order("id asc").Find(&notifications).Error)
	return notifications
}

func TestVoteToggleLifecycle(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	question := createQuestion(t, alice)
	answer := createAnswer(t, bob, question.ID)

	// Fresh upvote.
	res, err := testSvc.Vote(ctx, TargetAnswer, answer.ID, carol, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, res.VoteCount)
	assert.Equal(t, models.VoteUp, res.UserVote)
	assert.Equal(t, 1, reloadAnswer(t, answer.ID).VoteCount)
	require.Len(t, allVotes(t), 1)

	// Same direction toggles the vote off.
	res, err = testSvc.Vote(ctx, TargetAnswer, answer.ID, carol, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 0, res.VoteCount)
	assert.Empty(t, res.UserVote)
	assert.Equal(t, 0, reloadAnswer(t, answer.ID).VoteCount)
	assert.Empty(t, allVotes(t))

	// Downvote after the toggle is a fresh insert again.
	res, err = testSvc.Vote(ctx, TargetAnswer, answer.ID, carol, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, res.VoteCount)
	assert.Equal(t, models.VoteDown, res.UserVote)

	votes := allVotes(t)
	require.Len(t, votes, 1)
	assert.Equal(t, carol.ID, votes[0].UserID)
	assert.Equal(t, models.VoteDown, votes[0].Type)
	require.NotNil(t, votes[0].AnswerID)
	assert.Equal(t, answer.ID, *votes[0].AnswerID)
}

func TestVoteSwitchKeepsSingleLedgerEntry(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	question := createQuestion(t, alice)
	answer := createAnswer(t, bob, question.ID)

	_, err := testSvc.Vote(ctx, TargetAnswer, answer.ID, carol, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 10, reloadUser(t, bob.ID).Reputation)
	assert.Equal(t, 1, reloadUser(t, bob.ID).UpvotesReceived)

	res, err := testSvc.Vote(ctx, TargetAnswer, answer.ID, carol, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, res.VoteCount)
	assert.Equal(t, models.VoteDown, res.UserVote)

	votes := allVotes(t)
	require.Len(t, votes, 1)
	assert.Equal(t, models.VoteDown, votes[0].Type)

	// +10 on the upvote, then -12 on the switch.
	assert.Equal(t, -2, reloadUser(t, bob.ID).Reputation)
	assert.Equal(t, 0, reloadUser(t, bob.ID).UpvotesReceived)
}

func TestVoteOnQuestionNotifiesAuthor(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	question := createQuestion(t, alice)

	res, err := testSvc.Vote(ctx, TargetQuestion, question.ID, bob, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, res.VoteCount)
	assert.Equal(t, 1, reloadQuestion(t, question.ID).VoteCount)
	assert.Equal(t, 10, reloadUser(t, alice.ID).Reputation)

	notifications := notificationsFor(t, alice.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationVote, notifications[0].Type)
	require.NotNil(t, notifications[0].SenderID)
	assert.Equal(t, bob.ID, *notifications[0].SenderID)

	// Downvotes do not notify.
	carol := createUser(t, "carol")
	_, err = testSvc.Vote(ctx, TargetQuestion, question.ID, carol, models.VoteDown)
	require.NoError(t, err)
	assert.Len(t, notificationsFor(t, alice.ID), 1)
}

func TestVoteOnOwnContentRejected(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	question := createQuestion(t, alice)
	answer := createAnswer(t, alice, question.ID)

	_, err := testSvc.Vote(ctx, TargetQuestion, question.ID, alice, models.VoteUp)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = testSvc.Vote(ctx, TargetAnswer, answer.ID, alice, models.VoteDown)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	assert.Empty(t, allVotes(t))
	assert.Equal(t, 0, reloadQuestion(t, question.ID).VoteCount)
	assert.Equal(t, 0, reloadUser(t, alice.ID).Reputation)
}

func TestVoteRejectsBadInput(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	question := createQuestion(t, alice)

	_, err := testSvc.Vote(ctx, TargetQuestion, question.ID, bob, "sideways")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = testSvc.Vote(ctx, TargetAnswer, 9999, bob, models.VoteUp)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestVoteReputationAccumulates(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	question := createQuestion(t, alice)
	answer := createAnswer(t, bob, question.ID)

	// up (+10), toggle off (-10), down (-2), switch to up (+12).
	for _, direction := range []string{models.VoteUp, models.VoteUp, models.VoteDown, models.VoteUp} {
		_, err := testSvc.Vote(ctx, TargetAnswer, answer.ID, carol, direction)
		require.NoError(t, err)
	}

	bob = reloadUser(t, bob.ID)
	assert.Equal(t, 10, bob.Reputation)
	assert.Equal(t, 1, bob.UpvotesReceived)
	assert.Equal(t, 1, reloadAnswer(t, answer.ID).VoteCount)
}

func TestAcceptAnswerLifecycle(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	question := createQuestion(t, alice)
	first := createAnswer(t, bob, question.ID)
	second := createAnswer(t, carol, question.ID)

	res, err := testSvc.AcceptAnswer(ctx, first.ID, alice)
	require.NoError(t, err)
	assert.True(t, res.IsAccepted)

	q := reloadQuestion(t, question.ID)
	require.NotNil(t, q.AcceptedAnswerID)
	assert.Equal(t, first.ID, *q.AcceptedAnswerID)
	assert.NotNil(t, q.AcceptedAt)
	assert.Equal(t, 15, reloadUser(t, bob.ID).Reputation)

	notifications := notificationsFor(t, bob.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationAccept, notifications[0].Type)

	// Accepting another answer moves acceptance and reverses the old bonus.
	res, err = testSvc.AcceptAnswer(ctx, second.ID, alice)
	require.NoError(t, err)
	assert.True(t, res.IsAccepted)

	q = reloadQuestion(t, question.ID)
	require.NotNil(t, q.AcceptedAnswerID)
	assert.Equal(t, second.ID, *q.AcceptedAnswerID)
	assert.Equal(t, 0, reloadUser(t, bob.ID).Reputation)
	assert.Equal(t, 15, reloadUser(t, carol.ID).Reputation)

	// Accepting the accepted answer again removes acceptance.
	res, err = testSvc.AcceptAnswer(ctx, second.ID, alice)
	require.NoError(t, err)
	assert.False(t, res.IsAccepted)

	q = reloadQuestion(t, question.ID)
	assert.Nil(t, q.AcceptedAnswerID)
	assert.Nil(t, q.AcceptedAt)
	assert.Nil(t, q.AcceptedByID)
	assert.Equal(t, 0, reloadUser(t, carol.ID).Reputation)
}

func TestAcceptAnswerOnlyQuestionAuthor(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	question := createQuestion(t, alice)
	answer := createAnswer(t, bob, question.ID)

	_, err := testSvc.AcceptAnswer(ctx, answer.ID, bob)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	assert.Nil(t, reloadQuestion(t, question.ID).AcceptedAnswerID)
	assert.Equal(t, 0, reloadUser(t, bob.ID).Reputation)

	_, err = testSvc.AcceptAnswer(ctx, 9999, alice)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAcceptOwnAnswerSkipsNotification(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	question := createQuestion(t, alice)
	answer := createAnswer(t, alice, question.ID)

	res, err := testSvc.AcceptAnswer(ctx, answer.ID, alice)
	require.NoError(t, err)
	assert.True(t, res.IsAccepted)
	assert.Equal(t, 15, reloadUser(t, alice.ID).Reputation)
	assert.Empty(t, notificationsFor(t, alice.ID))
}

func TestCreateQuestionUpsertsTags(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")

	question, err := testSvc.CreateQuestion(ctx, alice,
		"How do I join two tables in Postgres?",
		"I keep getting duplicate rows when joining on a many-to-many relation.",
		[]string{" Go ", "SQL", "go"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "sql"}, question.TagNames())

	assert.Equal(t, 1, tagByName(t, "go").QuestionCount)
	assert.Equal(t, 1, tagByName(t, "sql").QuestionCount)

	createQuestion(t, alice, "go")
	assert.Equal(t, 2, tagByName(t, "go").QuestionCount)
	assert.Equal(t, 2, reloadUser(t, alice.ID).QuestionsCount)
}

func TestCreateQuestionValidation(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	longDescription := "A description long enough to pass validation easily."

	tests := []struct {
		name        string
		title       string
		description string
		tags        []string
	}{
		{"title too short", "short", longDescription, []string{"go"}},
		{"description too short", "A perfectly valid title", "too short", []string{"go"}},
		{"no usable tags", "A perfectly valid title", longDescription, []string{"", "  "}},
		{"too many tags", "A perfectly valid title", longDescription, []string{"a1", "a2", "a3", "a4", "a5", "a6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testSvc.CreateQuestion(ctx, alice, tt.title, tt.description, tt.tags)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	var count int64
	require.NoError(t, testDB.Model(&models.Question{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateAnswerUpdatesCountersAndNotifies(t *testing.T) {
	resetTables(t)

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	question := createQuestion(t, alice)

	answer := createAnswer(t, bob, question.ID)
	assert.Equal(t, question.ID, answer.QuestionID)
	assert.Equal(t, 1, reloadQuestion(t, question.ID).AnswerCount)
	assert.Equal(t, 1, reloadUser(t, bob.ID).AnswersCount)

	notifications := notificationsFor(t, alice.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationAnswer, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "bob")

	// Answering your own question does not notify.
	createAnswer(t, alice, question.ID)
	assert.Len(t, notificationsFor(t, alice.ID), 1)
	assert.Equal(t, 2, reloadQuestion(t, question.ID).AnswerCount)
}

func TestCreateAnswerValidation(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	question := createQuestion(t, alice)

	_, err := testSvc.CreateAnswer(ctx, bob, question.ID, "short")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = testSvc.CreateAnswer(ctx, bob, 9999, "This answer is long enough to pass.")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSoftDeleteQuestion(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	admin := createUser(t, "admin")
	question := createQuestion(t, alice, "go", "sql")

	require.NoError(t, testSvc.SoftDeleteQuestion(ctx, question.ID, admin))

	q := reloadQuestion(t, question.ID)
	assert.True(t, q.IsDeleted)
	assert.NotNil(t, q.DeletedAt)
	require.NotNil(t, q.DeletedByID)
	assert.Equal(t, admin.ID, *q.DeletedByID)

	assert.Equal(t, 0, tagByName(t, "go").QuestionCount)
	assert.Equal(t, 0, tagByName(t, "sql").QuestionCount)

	// A second delete is a conflict, and deleted questions reject votes.
	err := testSvc.SoftDeleteQuestion(ctx, question.ID, admin)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = testSvc.Vote(ctx, TargetQuestion, question.ID, bob, models.VoteUp)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSoftDeleteAnswerClearsAcceptance(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	admin := createUser(t, "admin")
	question := createQuestion(t, alice)
	answer := createAnswer(t, bob, question.ID)

	_, err := testSvc.AcceptAnswer(ctx, answer.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, 15, reloadUser(t, bob.ID).Reputation)

	require.NoError(t, testSvc.SoftDeleteAnswer(ctx, answer.ID, admin))

	assert.True(t, reloadAnswer(t, answer.ID).IsDeleted)
	q := reloadQuestion(t, question.ID)
	assert.Nil(t, q.AcceptedAnswerID)
	assert.Equal(t, 0, q.AnswerCount)
	assert.Equal(t, 0, reloadUser(t, bob.ID).Reputation)

	err = testSvc.SoftDeleteAnswer(ctx, answer.ID, admin)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestSetUserStatus(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	admin := createUser(t, "admin")
	require.NoError(t, testDB.Model(&admin).Update("role", models.RoleAdmin).Error)
	admin = reloadUser(t, admin.ID)

	other := createUser(t, "otheradmin")
	require.NoError(t, testDB.Model(&other).Update("role", models.RoleAdmin).Error)

	bob := createUser(t, "bob")

	blocked, err := testSvc.SetUserStatus(ctx, admin, bob.ID, models.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, blocked.Status)
	assert.Equal(t, models.StatusBlocked, reloadUser(t, bob.ID).Status)

	unblocked, err := testSvc.SetUserStatus(ctx, admin, bob.ID, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, unblocked.Status)

	_, err = testSvc.SetUserStatus(ctx, admin, other.ID, models.StatusBlocked)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = testSvc.SetUserStatus(ctx, admin, admin.ID, models.StatusActive)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = testSvc.SetUserStatus(ctx, admin, bob.ID, "suspended")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = testSvc.SetUserStatus(ctx, admin, 9999, models.StatusBlocked)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestNotificationsListAndMarkRead(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	question := createQuestion(t, alice)
	createAnswer(t, bob, question.ID)
	createAnswer(t, carol, question.ID)

	page, err := testSvc.ListNotifications(ctx, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.EqualValues(t, 2, page.Unread)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].Sender)

	first := page.Items[0]

	// Notifications belong to their recipient.
	err = testSvc.MarkNotificationRead(ctx, first.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, testSvc.MarkNotificationRead(ctx, first.ID, alice.ID))

	page, err = testSvc.ListNotifications(ctx, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Unread)

	require.NoError(t, testSvc.MarkAllNotificationsRead(ctx, alice.ID))

	page, err = testSvc.ListNotifications(ctx, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Unread)
	for _, item := range page.Items {
		assert.True(t, item.IsRead)
		assert.NotNil(t, item.ReadAt)
	}
}

func TestTagManagement(t *testing.T) {
	resetTables(t)
	ctx := context.Background()

	admin := createUser(t, "admin")

	tag, err := testSvc.CreateTag(ctx, admin, " Testing ", "All about tests", "#FF5733")
	require.NoError(t, err)
	assert.Equal(t, "testing", tag.Name)
	assert.Equal(t, "#FF5733", tag.Color)

	_, err = testSvc.CreateTag(ctx, admin, "testing", "", "")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = testSvc.CreateTag(ctx, admin, "Bad Tag!", "", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = testSvc.CreateTag(ctx, admin, "x", "", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = testSvc.CreateTag(ctx, admin, "colors", "", "red")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	alice := createUser(t, "alice")
	createQuestion(t, alice, "go")
	createQuestion(t, alice, "go", "sql")

	popular, err := testSvc.PopularTags(ctx, 10)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "go", popular[0].Name)

	listed, err := testSvc.ListTags(ctx, "alphabetical", 10)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "go", listed[0].Name)

	require.NoError(t, testSvc.DeactivateTag(ctx, tag.ID))

	listed, err = testSvc.ListTags(ctx, "popular", 10)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	err = testSvc.DeactivateTag(ctx, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
