package social

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

type AdmireResult struct {
	Mutual bool
}

// Admire records that admirerId admires targetId. The admirer's weekly
// counter is rolled over before the quota is checked. When the target
// already admires the admirer the match is mutual and both users' admirer
// sets are updated; otherwise only the target learns about it.
func (s *Service) Admire(ctx context.Context, admirerId, targetId int) (AdmireResult, error) {
	if admirerId == targetId {
		return AdmireResult{}, ErrSelfReference
	}

	admirer, err := s.db.GetUserById(ctx, admirerId)
	if err != nil {
		return AdmireResult{}, storeErr("get admirer", err)
	}
	target, err := s.db.GetUserById(ctx, targetId)
	if err != nil {
		return AdmireResult{}, storeErr("get target", err)
	}

	admirer.AdmireCountThisWeek, admirer.LastAdmireReset = MaybeResetWeeklyQuota(
		s.now(), admirer.LastAdmireReset, admirer.AdmireCountThisWeek)

	if admirer.AdmireCountThisWeek >= WeeklyAdmireLimit {
		return AdmireResult{}, fmt.Errorf("%w: you can admire up to %d users per week", ErrQuotaExceeded, WeeklyAdmireLimit)
	}
	if slices.Contains(admirer.AdmiredUsers, targetId) {
		return AdmireResult{}, fmt.Errorf("%w: you already admire this user", ErrDuplicateAction)
	}

	admirer.AdmiredUsers = append(admirer.AdmiredUsers, targetId)
	admirer.AdmireCountThisWeek++

	mutual := slices.Contains(target.AdmiredUsers, admirerId)
	if mutual {
		admirer.Admirers = addId(admirer.Admirers, targetId)
	}
	target.Admirers = addId(target.Admirers, admirerId)

	if err := s.db.SaveUserGraph(ctx, admirer); err != nil {
		return AdmireResult{}, storeErr("save admirer", err)
	}
	if err := s.db.SaveUserGraph(ctx, target); err != nil {
		return AdmireResult{}, storeErr("save target", err)
	}

	if mutual {
		s.log.Info("mutual admiration", zap.Int("user_id", admirerId), zap.Int("match_id", targetId))
		s.notify("mutual admire", target.Id, s.notifier.SendMutualAdmire(ctx, target.Email, admirer.Name))
		s.notify("mutual admire", admirer.Id, s.notifier.SendMutualAdmire(ctx, admirer.Email, target.Name))
	} else {
		s.notify("admire", target.Id, s.notifier.SendAdmire(ctx, target.Email))
	}

	return AdmireResult{Mutual: mutual}, nil
}

// VoteCool adds voterId to the target's cool votes. Votes are permanent.
func (s *Service) VoteCool(ctx context.Context, voterId, targetId int) error {
	if voterId == targetId {
		return ErrSelfReference
	}

	target, err := s.db.GetUserById(ctx, targetId)
	if err != nil {
		return storeErr("get target", err)
	}

	if slices.Contains(target.CoolVotes, voterId) {
		return fmt.Errorf("%w: you already voted for this user", ErrDuplicateAction)
	}

	target.CoolVotes = append(target.CoolVotes, voterId)
	if err := s.db.SaveUserGraph(ctx, target); err != nil {
		return storeErr("save cool vote", err)
	}

	return nil
}

// notify logs a failed delivery. The triggering action has already been
// persisted and is not affected.
func (s *Service) notify(kind string, userId int, err error) {
	if err != nil {
		s.log.Warn("notification failed",
			zap.String("kind", kind),
			zap.Int("user_id", userId),
			zap.Error(err),
		)
	}
}

func addId(ids []int, id int) []int {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
