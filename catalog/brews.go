package catalog

import (
	"context"
	"fmt"

	"github.com/sat8bit/brew/brew"
)

// Brew は、ID が一致する Brew を、結合テーブル経由で組み立てて返します。
func (p *Postgres) Brew(ctx context.Context, id string) (*brew.Brew, error) {
	b := &brew.Brew{ID: id}

	err := p.pool.QueryRow(ctx,
		`SELECT name FROM brews WHERE id = $1`, id,
	).Scan(&b.Name)
	if err != nil {
		return nil, fmt.Errorf("catalog.Postgres.Brew: %w", err)
	}

	scene, err := p.sceneForBrew(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Scene = scene

	characters, err := p.charactersForBrew(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Characters = characters

	mods, err := p.modsForBrew(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Mods = mods

	return b, nil
}

// Brews は、すべての Brew を返します。
func (p *Postgres) Brews(ctx context.Context) ([]*brew.Brew, error) {
	rows, err := p.pool.Query(ctx, `SELECT id::text FROM brews ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog.Postgres.Brews: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("catalog.Postgres.Brews: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog.Postgres.Brews: %w", err)
	}

	brews := make([]*brew.Brew, 0, len(ids))
	for _, id := range ids {
		b, err := p.Brew(ctx, id)
		if err != nil {
			return nil, err
		}
		brews = append(brews, b)
	}
	return brews, nil
}

func (p *Postgres) sceneForBrew(ctx context.Context, brewID string) (*brew.Scene, error) {
	var s brew.Scene
	err := p.pool.QueryRow(ctx,
		`SELECT s.id::text, s.name, s.description, s.image_url, s.max_characters
		   FROM brew_scenes bs
		   JOIN scenes s ON s.id = bs.scene_id
		  WHERE bs.brew_id = $1
		  LIMIT 1`, brewID,
	).Scan(&s.ID, &s.Name, &s.Description, &s.ImageURL, &s.MaxCharacters)
	if err != nil {
		return nil, fmt.Errorf("catalog.Postgres.sceneForBrew: %w", err)
	}
	return &s, nil
}

func (p *Postgres) charactersForBrew(ctx context.Context, brewID string) ([]*brew.Character, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT c.id::text, c.name, c.description, c.avatar_url, c.intro_text,
		        c.dialogue_style, c.motivations, c.background, c.personality_traits, c.fears
		   FROM brew_characters bc
		   JOIN characters c ON c.id = bc.character_id
		  WHERE bc.brew_id = $1
		  ORDER BY c.id`, brewID,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog.Postgres.charactersForBrew: %w", err)
	}
	defer rows.Close()

	var characters []*brew.Character
	for rows.Next() {
		var c brew.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.AvatarURL, &c.IntroText,
			&c.DialogueStyle, &c.Motivations, &c.Background, &c.PersonalityTraits, &c.Fears); err != nil {
			return nil, fmt.Errorf("catalog.Postgres.charactersForBrew: %w", err)
		}
		characters = append(characters, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog.Postgres.charactersForBrew: %w", err)
	}
	return characters, nil
}

func (p *Postgres) modsForBrew(ctx context.Context, brewID string) ([]*brew.Mod, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT m.id::text, m.name, m.description, m.ticker
		   FROM brew_mods bm
		   JOIN mods m ON m.id = bm.mod_id
		  WHERE bm.brew_id = $1
		  ORDER BY m.id`, brewID,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog.Postgres.modsForBrew: %w", err)
	}
	defer rows.Close()

	var mods []*brew.Mod
	for rows.Next() {
		var m brew.Mod
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Ticker); err != nil {
			return nil, fmt.Errorf("catalog.Postgres.modsForBrew: %w", err)
		}
		mods = append(mods, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog.Postgres.modsForBrew: %w", err)
	}
	return mods, nil
}

// コンパイル時に brew.Source インターフェースを実装していることを保証します。
var _ brew.Source = (*Postgres)(nil)
