package repository

import (
	"errors"

	"binregistry/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultProgramRepository struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *DefaultProgramRepository {
	return &DefaultProgramRepository{db: db}
}

func (r *DefaultProgramRepository) FindByID(id uint) (*entity.Program, error) {
	var program entity.Program
	err := r.db.First(&program, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &program, nil
}

// ProgramsWithParticipants lists only programs that have at least one
// participation row, ordered by name.
func (r *DefaultProgramRepository) ProgramsWithParticipants() ([]*entity.Program, error) {
	var programs []*entity.Program
	err := r.db.
		Model(&entity.Program{}).
		Distinct("programs.*").
		Joins("JOIN program_participations AS pp ON pp.program_id = programs.id").
		Order("programs.name").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

// Years returns the distinct participation years recorded for a program in
// ascending order, plus whether any rows carry no year at all.
func (r *DefaultProgramRepository) Years(programID uint) ([]int, bool, error) {
	var raw []*int
	err := r.db.
		Model(&entity.ProgramParticipation{}).
		Where("program_id = ?", programID).
		Distinct().
		Order("year").
		Pluck("year", &raw).Error
	if err != nil {
		return nil, false, err
	}

	var years []int
	hasNoYear := false
	for _, y := range raw {
		if y == nil {
			hasNoYear = true
			continue
		}
		years = append(years, *y)
	}
	return years, hasNoYear, nil
}
