package service

import (
	"fmt"
	"math/rand"
	"time"

	"physics_edu_backend/internal/model"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/util"
)

// 专注时长落在这个区间视为刷进度，完成内容反而扣一分
const (
	rushedFocusMinSeconds = 120
	rushedFocusMaxSeconds = 240
)

type SubjectService struct {
	subjects *repository.SubjectRepository
	users    *repository.UserRepository
}

func NewSubjectService(subjects *repository.SubjectRepository, users *repository.UserRepository) *SubjectService {
	return &SubjectService{subjects: subjects, users: users}
}

// SubjectProgressView 单个主题的进度，CanView 由前一个主题的完成状态推导
type SubjectProgressView struct {
	ID          uint              `json:"id"`
	Name        model.SubjectName `json:"name"`
	SpanishName string            `json:"spanishName"`
	Sequence    int               `json:"sequence"`
	Completed   bool              `json:"completed"`
	CanView     bool              `json:"canView"`
}

// ListForUser 返回全部主题和解锁状态，第一个主题永远可见
func (s *SubjectService) ListForUser(userID uint) ([]SubjectProgressView, error) {
	if err := s.subjects.EnsureUserSubjects(userID); err != nil {
		return nil, err
	}

	rows, err := s.subjects.ListUserSubjects(userID)
	if err != nil {
		return nil, err
	}

	views := make([]SubjectProgressView, 0, len(rows))
	for i, row := range rows {
		canView := row.Completed
		if i == 0 {
			canView = true
		} else if rows[i-1].Completed {
			canView = true
		}
		views = append(views, SubjectProgressView{
			ID:          row.SubjectID,
			Name:        row.Subject.Name,
			SpanishName: row.Subject.SpanishName,
			Sequence:    row.Subject.Sequence,
			Completed:   row.Completed,
			CanView:     canView,
		})
	}
	return views, nil
}

// CurrentSubjectName 用户当前推进到的主题：第一个未完成的，全完成则取最后一个
func (s *SubjectService) CurrentSubjectName(userID uint) (model.SubjectName, error) {
	views, err := s.ListForUser(userID)
	if err != nil {
		return "", err
	}
	if len(views) == 0 {
		return "", util.ErrSubjectNotFound
	}
	for _, v := range views {
		if !v.Completed {
			return v.Name, nil
		}
	}
	return views[len(views)-1].Name, nil
}

// SubjectDetailView 内容游标视图。进行中时 Contents 只含当前要学的一条
type SubjectDetailView struct {
	Subject   SubjectProgressView    `json:"subject"`
	Completed bool                   `json:"completed"`
	Contents  []model.SubjectContent `json:"contents"`
}

// GetSubject 返回主题的学习游标：未完成时定位（并开启）当前内容，
// 全部学完后返回完整内容列表，学完再次进入会从头再开一轮
func (s *SubjectService) GetSubject(userID uint, name string) (*SubjectDetailView, error) {
	if !model.ValidSubjectName(name) {
		return nil, util.ErrSubjectNotFound
	}

	views, err := s.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	var progress *SubjectProgressView
	for i := range views {
		if views[i].Name == model.SubjectName(name) {
			progress = &views[i]
			break
		}
	}
	if progress == nil {
		return nil, util.ErrSubjectNotFound
	}
	if !progress.CanView {
		return nil, util.ErrSubjectLocked
	}

	contents, err := s.subjects.ListContents(progress.ID)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return &SubjectDetailView{Subject: *progress, Completed: true}, nil
	}

	completedSet, err := s.subjects.CompletedContentIDs(userID, progress.ID)
	if err != nil {
		return nil, err
	}

	if len(completedSet) == len(contents) {
		return &SubjectDetailView{Subject: *progress, Completed: true, Contents: contents}, nil
	}

	// 已经有开着的学习记录就回到那条内容
	open, err := s.subjects.OpenCompletions(userID, progress.ID)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return &SubjectDetailView{
			Subject:  *progress,
			Contents: []model.SubjectContent{open[0].Content},
		}, nil
	}

	next := contents[0]
	if len(completedSet) > 0 {
		lastIdx := -1
		for i, c := range contents {
			if completedSet[c.ID] {
				lastIdx = i
			}
		}
		if lastIdx+1 < len(contents) {
			next = contents[lastIdx+1]
		}
	}

	if _, err := s.subjects.StartCompletion(userID, next.ID, time.Now()); err != nil {
		return nil, err
	}

	return &SubjectDetailView{
		Subject:  *progress,
		Contents: []model.SubjectContent{next},
	}, nil
}

// CompleteContentResult 完成内容后的路由指示，命中出题条件时跳到测验
type CompleteContentResult struct {
	ChangeRoute bool   `json:"changeRoute"`
	GoTo        string `json:"goTo,omitempty"`
}

// CompleteContent 结束当前内容的学习记录并结算积分。
// 专注时长落在刷进度区间扣一分，否则加一分；
// 学完主题最后一条内容、或积分凑到 3 的倍数时，随机安排一场测验
func (s *SubjectService) CompleteContent(userID, contentID uint) (*CompleteContentResult, error) {
	content, err := s.subjects.FindContentByID(contentID)
	if err != nil {
		return nil, err
	}

	if err := s.subjects.FinishOpenCompletions(userID, contentID, time.Now()); err != nil {
		return nil, err
	}

	completion, err := s.subjects.LatestCompletion(userID, contentID)
	if err != nil {
		return nil, err
	}

	delta := 1.0
	if completion != nil &&
		completion.TotalTimeFocused > rushedFocusMinSeconds &&
		completion.TotalTimeFocused < rushedFocusMaxSeconds {
		delta = -1.0
	}
	if err := s.users.AdjustPoints(s.users.DB, userID, delta); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}

	contents, err := s.subjects.ListContents(content.SubjectID)
	if err != nil {
		return nil, err
	}
	isLast := len(contents) > 0 && contents[len(contents)-1].ID == contentID

	if isLast || int(user.Points+0.5)%3 == 0 {
		var subject model.Subject
		if err := s.subjects.DB.First(&subject, content.SubjectID).Error; err != nil {
			return nil, err
		}

		route := "/quiz"
		if rand.Float64() < 0.5 {
			route = "/complex-quiz"
		}
		return &CompleteContentResult{
			ChangeRoute: true,
			GoTo:        fmt.Sprintf("%s?subject=%s", route, subject.Name),
		}, nil
	}

	return &CompleteContentResult{ChangeRoute: false}, nil
}

// MaybeCompleteSubject 测验收口后检查主题内容是否全部学完，
// 是则标记主题完成，解锁下一个主题
func (s *SubjectService) MaybeCompleteSubject(userID uint, name model.SubjectName) error {
	subject, err := s.subjects.FindSubjectByName(name)
	if err != nil {
		return err
	}

	contents, err := s.subjects.ListContents(subject.ID)
	if err != nil {
		return err
	}
	if len(contents) == 0 {
		return nil
	}

	completedSet, err := s.subjects.CompletedContentIDs(userID, subject.ID)
	if err != nil {
		return err
	}
	if len(completedSet) < len(contents) {
		return nil
	}

	return s.subjects.MarkUserSubjectCompleted(userID, subject.ID)
}

// AddContentFocusedTime 累计内容上的专注时长，尽力而为
func (s *SubjectService) AddContentFocusedTime(userID, contentID uint, seconds int) error {
	return s.subjects.AddContentFocusedTime(contentID, userID, seconds)
}
