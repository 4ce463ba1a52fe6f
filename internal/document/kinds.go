package document

import (
	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
)

type selectDoc struct {
	Table    string     `yaml:"table"`
	Alias    string     `yaml:"alias"`
	Distinct bool       `yaml:"distinct"`
	Columns  []string   `yaml:"columns"`
	Raw      []string   `yaml:"raw"`
	Joins    []joinDoc  `yaml:"joins"`
	Where    Where      `yaml:"where"`
	GroupBy  []string   `yaml:"groupBy"`
	Order    []orderDoc `yaml:"order"`
	Limit    *int       `yaml:"limit"`
	Offset   *int       `yaml:"offset"`
}

type joinDoc struct {
	Type  string `yaml:"type"`
	Table string `yaml:"table"`
	Alias string `yaml:"alias"`
	On    Where  `yaml:"on"`
}

type orderDoc struct {
	Field string `yaml:"field"`
	Desc  bool   `yaml:"desc"`
}

func (s selectDoc) data() phrasing.SelectData {
	d := phrasing.SelectData{
		Table:    s.Table,
		Alias:    s.Alias,
		Distinct: s.Distinct,
		Where:    s.Where.Condition,
		GroupBy:  s.GroupBy,
		Limit:    s.Limit,
		Offset:   s.Offset,
	}
	for _, c := range s.Columns {
		d.Columns = append(d.Columns, c)
	}
	// raw columns are emitted verbatim, e.g. COUNT(*) AS n
	for _, c := range s.Raw {
		d.Columns = append(d.Columns, fragment.Literal(c))
	}
	for _, j := range s.Joins {
		d.Joins = append(d.Joins, phrasing.Join{Type: j.Type, Table: j.Table, Alias: j.Alias, On: j.On.Condition})
	}
	for _, o := range s.Order {
		d.Order = append(d.Order, phrasing.Order{Field: o.Field, Descending: o.Desc})
	}
	return d
}

type insertDoc struct {
	Table     string                   `yaml:"table"`
	Rows      []map[string]interface{} `yaml:"rows"`
	Returning string                   `yaml:"returning"`
}

type updateDoc struct {
	Table  string                 `yaml:"table"`
	Values map[string]interface{} `yaml:"values"`
	Where  Where                  `yaml:"where"`
}

type deleteDoc struct {
	Table string `yaml:"table"`
	Where Where  `yaml:"where"`
}

type createTableDoc struct {
	Name        string            `yaml:"name"`
	IfNotExists bool              `yaml:"ifNotExists"`
	Columns     []phrasing.Column `yaml:"columns"`
}

// alterTableDoc mirrors phrasing.AlterTableData field for field.
type alterTableDoc struct {
	Name          string            `yaml:"name"`
	AddColumns    []phrasing.Column `yaml:"addColumns"`
	DropColumns   []string          `yaml:"dropColumns"`
	RenameColumns []phrasing.Rename `yaml:"renameColumns"`
	AddIndexes    []phrasing.Index  `yaml:"addIndexes"`
	DropIndexes   []string          `yaml:"dropIndexes"`
	RenameIndexes []phrasing.Rename `yaml:"renameIndexes"`
}

type dropTableDoc struct {
	Name     string `yaml:"name"`
	IfExists bool   `yaml:"ifExists"`
}

type renameDoc struct {
	Table string `yaml:"table"`
	From  string `yaml:"from"`
	To    string `yaml:"to"`
}

type createIndexDoc struct {
	Table string         `yaml:"table"`
	Index phrasing.Index `yaml:"index"`
}

type dropIndexDoc struct {
	Table string `yaml:"table"`
	Name  string `yaml:"name"`
}

type transactionDoc struct {
	Level int `yaml:"level"`
}
