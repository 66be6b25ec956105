package store

const (
	createUser = `INSERT INTO users (id, email, password_hash, display_name)
    VALUES (?, ?, ?, ?)
    RETURNING id, email, password_hash, display_name, created_at;`

	findUserByEmail = `SELECT id, email, password_hash, display_name, created_at
    FROM users
    WHERE email = ?;`

	updateUserPassword = `UPDATE users
    SET password_hash = ?
    WHERE email = ?;`

	upsertSpace = `INSERT INTO spaces (id, owner_id, owner_email, owner_name, sharing_paused)
    VALUES (?, ?, ?, ?, ?)
    ON CONFLICT (id) DO UPDATE SET
        owner_email = excluded.owner_email,
        owner_name  = excluded.owner_name;`

	getSpace = `SELECT id, owner_id, owner_email, owner_name, sharing_paused, created_at
    FROM spaces
    WHERE id = ?;`

	spacesForUser = `SELECT s.id, s.owner_id, s.owner_email, s.owner_name, s.sharing_paused, s.created_at
    FROM spaces s
    JOIN space_members m ON m.space_id = s.id
    WHERE m.user_id = ?
    ORDER BY s.created_at;`

	setSpacePaused = `UPDATE spaces
    SET sharing_paused = ?
    WHERE id = ?;`

	spaceMemberIDs = `SELECT user_id
    FROM space_members
    WHERE space_id = ?
    ORDER BY joined_at;`

	addSpaceMember = `INSERT INTO space_members (space_id, user_id, role, email, display_name)
    VALUES (?, ?, ?, ?, ?)
    ON CONFLICT (space_id, user_id) DO UPDATE SET
        role         = excluded.role,
        email        = excluded.email,
        display_name = excluded.display_name;`

	removeSpaceMember = `DELETE FROM space_members
    WHERE space_id = ? AND user_id = ?;`

	spaceMembers = `SELECT space_id, user_id, role, email, display_name, joined_at
    FROM space_members
    WHERE space_id = ?
    ORDER BY joined_at;`

	createInvite = `INSERT INTO invites (id, space_id, inviter_id, invitee_email, status)
    VALUES (?, ?, ?, ?, ?);`

	getInvite = `SELECT id, space_id, inviter_id, invitee_email, status, created_at
    FROM invites
    WHERE id = ?;`

	setInviteStatus = `UPDATE invites
    SET status = ?
    WHERE id = ?;`

	deleteInvite = `DELETE FROM invites
    WHERE id = ?;`
)

// Per-collection document queries; the table name is interpolated by the
// repository constructor from a fixed allow-list, never from user input.
const (
	upsertDocTpl = `INSERT INTO %s (space_id, id, doc, updated_at)
    VALUES (?, ?, ?, CURRENT_TIMESTAMP)
    ON CONFLICT (space_id, id) DO UPDATE SET
        doc        = excluded.doc,
        updated_at = CURRENT_TIMESTAMP;`

	deleteDocTpl = `DELETE FROM %s
    WHERE space_id = ? AND id = ?;`

	deleteAllDocsTpl = `DELETE FROM %s
    WHERE space_id = ?;`

	listDocsTpl = `SELECT doc
    FROM %s
    WHERE space_id = ?
    ORDER BY id;`
)
