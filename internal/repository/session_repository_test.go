package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionRepository_OpenAndGetOpen(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	t0 := fixedTime(t, "2026-02-10T14:00:00+03:00")
	sessions.now = func() time.Time { return t0 }

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	opened, err := sessions.Open(user.ID)
	require.NoError(t, err)
	require.NotZero(t, opened.ID)
	require.True(t, opened.IsOpen())

	current, err := sessions.GetOpen(user.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, opened.ID, current.ID)
	require.Nil(t, current.EndTime)
	require.True(t, current.StartTime.Equal(t0))
}

func TestSessionRepository_StartTimeSurvivesStorage(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	// часы не подменяем: метка, которую вернул Open, должна совпасть
	// с той, что читается из журнала
	opened, err := sessions.Open(user.ID)
	require.NoError(t, err)

	current, err := sessions.GetOpen(user.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.True(t, current.StartTime.Equal(opened.StartTime),
		"stored=%v returned=%v", current.StartTime, opened.StartTime)

	require.NoError(t, sessions.Close(user.ID))

	history, err := sessions.History(user.ID, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.True(t, history[0].StartTime.Equal(opened.StartTime))
}

func TestSessionRepository_OpenTwiceRejected(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	first, err := sessions.Open(user.ID)
	require.NoError(t, err)

	_, err = sessions.Open(user.ID)
	require.ErrorIs(t, err, ErrSessionAlreadyOpen)

	// существующая открытая сессия не изменилась
	current, err := sessions.GetOpen(user.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, first.ID, current.ID)
	require.True(t, current.StartTime.Equal(first.StartTime))
}

func TestSessionRepository_CloseWithoutOpen(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	require.ErrorIs(t, sessions.Close(user.ID), ErrNoOpenSession)
}

func TestSessionRepository_CloseTwiceRejected(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	_, err = sessions.Open(user.ID)
	require.NoError(t, err)

	require.NoError(t, sessions.Close(user.ID))
	require.ErrorIs(t, sessions.Close(user.ID), ErrNoOpenSession)
}

func TestSessionRepository_AttachEquipmentOverwrites(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	opened, err := sessions.Open(user.ID)
	require.NoError(t, err)

	require.NoError(t, sessions.AttachEquipment(opened.ID, "Laptop-5"))
	require.NoError(t, sessions.AttachEquipment(opened.ID, "Laptop-7"))

	current, err := sessions.GetOpen(user.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, "Laptop-7", current.Equipment)
}

func TestSessionRepository_AttachEquipmentUnknownSession(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	require.ErrorIs(t, sessions.AttachEquipment(12345, "Laptop-1"), ErrSessionNotFound)
}

func TestSessionRepository_HistoryScenario(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	t0 := fixedTime(t, "2026-02-10T14:00:00+03:00")
	t2 := fixedTime(t, "2026-02-10T15:30:00+03:00")

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	sessions.now = func() time.Time { return t0 }
	opened, err := sessions.Open(user.ID)
	require.NoError(t, err)

	require.NoError(t, sessions.AttachEquipment(opened.ID, "Laptop-5"))

	sessions.now = func() time.Time { return t2 }
	require.NoError(t, sessions.Close(user.ID))

	history, err := sessions.History(user.ID, 20)
	require.NoError(t, err)
	require.Len(t, history, 1)

	row := history[0]
	require.Equal(t, "Laptop-5", row.Equipment)
	require.True(t, row.StartTime.Equal(t0))
	require.NotNil(t, row.EndTime)
	require.True(t, row.EndTime.Equal(t2))
	require.Equal(t, 90*time.Minute, row.Duration())
}

func TestSessionRepository_HistoryOrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	user, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	starts := []string{
		"2026-02-10T10:00:00+03:00",
		"2026-02-11T10:00:00+03:00",
		"2026-02-12T10:00:00+03:00",
	}
	for _, start := range starts {
		startAt := fixedTime(t, start)
		sessions.now = func() time.Time { return startAt }
		_, err := sessions.Open(user.ID)
		require.NoError(t, err)

		sessions.now = func() time.Time { return startAt.Add(time.Hour) }
		require.NoError(t, sessions.Close(user.ID))
	}

	history, err := sessions.History(user.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.True(t, history[0].StartTime.After(history[1].StartTime))
	require.True(t, history[0].StartTime.Equal(fixedTime(t, starts[2])))
}

func TestSessionRepository_TwoIdentitiesDoNotInterfere(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)

	ivan, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)
	anna, err := users.FindOrCreateByName("Анна", "Сидорова", "9Б")
	require.NoError(t, err)

	ivanSession, err := sessions.Open(ivan.ID)
	require.NoError(t, err)
	annaSession, err := sessions.Open(anna.ID)
	require.NoError(t, err)

	current, err := sessions.GetOpen(ivan.ID)
	require.NoError(t, err)
	require.Equal(t, ivanSession.ID, current.ID)

	current, err = sessions.GetOpen(anna.ID)
	require.NoError(t, err)
	require.Equal(t, annaSession.ID, current.ID)

	// завершение сессии одного не трогает другого
	require.NoError(t, sessions.Close(ivan.ID))

	current, err = sessions.GetOpen(anna.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, annaSession.ID, current.ID)
}
