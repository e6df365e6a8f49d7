package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// toggleRow flips the presence of a composite-key row inside tx.
// It deletes rows matching conds; when nothing was removed it inserts row with
// ON CONFLICT DO NOTHING. created is true only if this call wrote the row, so a
// concurrent insert of the same pair reports active without created.
func toggleRow(tx *gorm.DB, model, row interface{}, conds map[string]interface{}) (active, created bool, err error) {
	res := tx.Where(conds).Delete(model)
	if res.Error != nil {
		return false, false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, false, nil
	}

	res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, false, res.Error
	}
	return true, res.RowsAffected > 0, nil
}
