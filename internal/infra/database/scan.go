package database

import (
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const prospectColumns = `id, business_name, contact_person, agent_id, phone, email, state, logo_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProspect(row rowScanner) (entity.Prospect, error) {
	var (
		p                     entity.Prospect
		state                 string
		phone, email, logoURL sql.NullString
	)

	err := row.Scan(&p.ID, &p.BusinessName, &p.ContactPerson, &p.AgentID, &phone, &email, &state, &logoURL)
	if err != nil {
		return entity.Prospect{}, err
	}

	p.Phone = phone.String
	p.Email = email.String
	p.Stage = entity.Stage(state)
	p.LogoURL = logoURL.String
	return p, nil
}

func scanProspects(rows *sql.Rows) ([]entity.Prospect, error) {
	defer rows.Close()

	prospects := []entity.Prospect{}
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, p)
	}
	return prospects, rows.Err()
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u     entity.User
		role  string
		email sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Nombre, &u.Apellido, &role, &email); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Email = email.String
	return &u, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
