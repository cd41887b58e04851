package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	userColumns = "id, name, email, password_hash, year, branch, bio, interests, social_links, " +
		"cool_votes, admired_users, admirers, admire_count_this_week, last_admire_reset, " +
		"is_verified, COALESCE(verification_token, ''), created_at, updated_at"

	userSummaryColumns = "id, name, year, branch, bio, interests, social_links, cardinality(cool_votes), created_at"

	roomColumns = "r.id, r.external_id, r.title, r.description, r.interests, r.creator_id, " +
		"COALESCE(u.name, ''), r.members, r.created_at, r.updated_at"

	reportColumns = "id, reporter_id, reported_user_id, reported_room_id, reason, description, status, created_at, updated_at"

	uniqueViolation = "23505"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *PgCampusRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	now := time.Now().UTC()
	row := db.conn.QueryRowContext(ctx,
		"INSERT INTO users (name, email, password_hash, year, branch, verification_token, last_admire_reset, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9) RETURNING "+userColumns,
		params.Name,
		params.Email,
		params.PasswordHash,
		params.Year,
		params.Branch,
		params.VerificationToken,
		now,
		now,
		now,
	)

	u, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (db *PgCampusRepository) GetUserById(ctx context.Context, id int) (User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1 LIMIT 1",
		id,
	)

	return scanUser(row)
}

func (db *PgCampusRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1 LIMIT 1",
		email,
	)

	return scanUser(row)
}

func (db *PgCampusRepository) GetUserByVerificationToken(ctx context.Context, token string) (User, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE verification_token = $1 LIMIT 1",
		token,
	)

	return scanUser(row)
}

func (db *PgCampusRepository) MarkUserVerified(ctx context.Context, id int) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE users SET is_verified = TRUE, verification_token = NULL, updated_at = $2 WHERE id = $1",
		id,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark user verified: %w", err)
	}

	return expectAffected(res)
}

func (db *PgCampusRepository) UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	links, err := json.Marshal(params.SocialLinks)
	if err != nil {
		return User{}, fmt.Errorf("encode social links: %w", err)
	}

	row := db.conn.QueryRowContext(ctx,
		"UPDATE users SET bio = $2, interests = $3, social_links = $4, updated_at = $5 "+
			"WHERE id = $1 RETURNING "+userColumns,
		params.UserId,
		params.Bio,
		pq.StringArray(nonNilStrings(params.Interests)),
		links,
		time.Now().UTC(),
	)

	return scanUser(row)
}

func (db *PgCampusRepository) SaveUserGraph(ctx context.Context, u User) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE users SET cool_votes = $2, admired_users = $3, admirers = $4, "+
			"admire_count_this_week = $5, last_admire_reset = $6, updated_at = $7 WHERE id = $1",
		u.Id,
		toInt64Array(u.CoolVotes),
		toInt64Array(u.AdmiredUsers),
		toInt64Array(u.Admirers),
		u.AdmireCountThisWeek,
		u.LastAdmireReset,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save user graph: %w", err)
	}

	return expectAffected(res)
}

func (db *PgCampusRepository) SearchUsers(ctx context.Context, params SearchUsersParams) ([]UserSummary, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+userSummaryColumns+" FROM users "+
			"WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' "+
			"OR EXISTS (SELECT 1 FROM unnest(interests) AS i WHERE i ILIKE '%' || $1 || '%')) "+
			"AND (cardinality($2::text[]) = 0 OR interests && $2::text[]) "+
			"ORDER BY created_at DESC LIMIT $3",
		params.Query,
		pq.StringArray(nonNilStrings(params.Interests)),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	return scanUserSummaries(rows)
}

func (db *PgCampusRepository) ListUserSummaries(ctx context.Context) ([]UserSummary, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT "+userSummaryColumns+" FROM users")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	return scanUserSummaries(rows)
}

func (db *PgCampusRepository) CreateRoom(ctx context.Context, params CreateRoomParams) (Room, error) {
	now := time.Now().UTC()
	var id int
	err := db.conn.QueryRowContext(ctx,
		"INSERT INTO rooms (external_id, title, description, interests, creator_id, members, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id",
		params.ExternalId,
		params.Title,
		params.Description,
		pq.StringArray(nonNilStrings(params.Interests)),
		params.CreatorId,
		toInt64Array([]int{params.CreatorId}),
		now,
		now,
	).Scan(&id)
	if err != nil {
		return Room{}, fmt.Errorf("create room: %w", err)
	}

	return db.GetRoomById(ctx, id)
}

func (db *PgCampusRepository) GetRoomByExternalId(ctx context.Context, externalId string) (Room, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms r LEFT JOIN users u ON u.id = r.creator_id "+
			"WHERE r.external_id = $1 LIMIT 1",
		externalId,
	)

	return scanRoom(row)
}

func (db *PgCampusRepository) GetRoomById(ctx context.Context, id int) (Room, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms r LEFT JOIN users u ON u.id = r.creator_id "+
			"WHERE r.id = $1 LIMIT 1",
		id,
	)

	return scanRoom(row)
}

func (db *PgCampusRepository) ListRooms(ctx context.Context, params ListRoomsParams) ([]Room, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+roomColumns+" FROM rooms r LEFT JOIN users u ON u.id = r.creator_id "+
			"WHERE (cardinality($1::text[]) = 0 OR r.interests && $1::text[]) "+
			"AND ($2 = '' OR r.title ILIKE '%' || $2 || '%' OR r.description ILIKE '%' || $2 || '%') "+
			"ORDER BY r.created_at DESC, r.id DESC",
		pq.StringArray(nonNilStrings(params.Interests)),
		params.Search,
	)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return rooms, nil
}

func (db *PgCampusRepository) SaveRoomMembers(ctx context.Context, roomId int, members []int) error {
	res, err := db.conn.ExecContext(ctx,
		"UPDATE rooms SET members = $2, updated_at = $3 WHERE id = $1",
		roomId,
		toInt64Array(members),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save room members: %w", err)
	}

	return expectAffected(res)
}

func (db *PgCampusRepository) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	row := db.conn.QueryRowContext(ctx,
		"WITH m AS (INSERT INTO messages (room_id, sender_id, content, created_at) VALUES ($1, $2, $3, $4) "+
			"RETURNING id, room_id, sender_id, content, created_at) "+
			"SELECT m.id, m.room_id, m.sender_id, COALESCE(u.name, ''), m.content, m.created_at "+
			"FROM m LEFT JOIN users u ON u.id = m.sender_id",
		params.RoomId,
		params.SenderId,
		params.Content,
		time.Now().UTC(),
	)

	msg, err := scanMessage(row)
	if err != nil {
		return Message{}, fmt.Errorf("create message: %w", err)
	}

	return msg, nil
}

func (db *PgCampusRepository) GetMessages(ctx context.Context, roomId int) ([]Message, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT m.id, m.room_id, m.sender_id, COALESCE(u.name, ''), m.content, m.created_at "+
			"FROM messages m LEFT JOIN users u ON u.id = m.sender_id "+
			"WHERE m.room_id = $1 ORDER BY m.created_at ASC, m.id ASC",
		roomId,
	)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return messages, nil
}

func (db *PgCampusRepository) CreateReport(ctx context.Context, params CreateReportParams) (Report, error) {
	now := time.Now().UTC()
	row := db.conn.QueryRowContext(ctx,
		"INSERT INTO reports (reporter_id, reported_user_id, reported_room_id, reason, description, status, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING "+reportColumns,
		params.ReporterId,
		params.ReportedUserId,
		params.ReportedRoomId,
		params.Reason,
		params.Description,
		string(ReportPending),
		now,
		now,
	)

	report, err := scanReport(row)
	if err != nil {
		return Report{}, fmt.Errorf("create report: %w", err)
	}

	return report, nil
}

func (db *PgCampusRepository) ListReports(ctx context.Context) ([]Report, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM reports ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return reports, nil
}

func (db *PgCampusRepository) UpdateReportStatus(ctx context.Context, id int, status ReportStatus) (Report, error) {
	row := db.conn.QueryRowContext(ctx,
		"UPDATE reports SET status = $2, updated_at = $3 WHERE id = $1 RETURNING "+reportColumns,
		id,
		string(status),
		time.Now().UTC(),
	)

	return scanReport(row)
}

func scanUser(row rowScanner) (User, error) {
	var (
		u                                 User
		interests                         pq.StringArray
		socialLinks                       []byte
		coolVotes, admiredUsers, admirers pq.Int64Array
	)

	err := row.Scan(
		&u.Id,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Year,
		&u.Branch,
		&u.Bio,
		&interests,
		&socialLinks,
		&coolVotes,
		&admiredUsers,
		&admirers,
		&u.AdmireCountThisWeek,
		&u.LastAdmireReset,
		&u.IsVerified,
		&u.VerificationToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if len(socialLinks) > 0 {
		if err := json.Unmarshal(socialLinks, &u.SocialLinks); err != nil {
			return User{}, fmt.Errorf("decode social links: %w", err)
		}
	}

	u.Interests = []string(interests)
	u.CoolVotes = toInts(coolVotes)
	u.AdmiredUsers = toInts(admiredUsers)
	u.Admirers = toInts(admirers)

	return u, nil
}

func scanUserSummaries(rows *sql.Rows) ([]UserSummary, error) {
	users := make([]UserSummary, 0)
	for rows.Next() {
		var (
			u           UserSummary
			interests   pq.StringArray
			socialLinks []byte
		)
		err := rows.Scan(
			&u.Id,
			&u.Name,
			&u.Year,
			&u.Branch,
			&u.Bio,
			&interests,
			&socialLinks,
			&u.CoolVotesCount,
			&u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		if len(socialLinks) > 0 {
			if err := json.Unmarshal(socialLinks, &u.SocialLinks); err != nil {
				return nil, fmt.Errorf("decode social links: %w", err)
			}
		}
		u.Interests = []string(interests)

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}

func scanRoom(row rowScanner) (Room, error) {
	var (
		room      Room
		interests pq.StringArray
		members   pq.Int64Array
	)

	err := row.Scan(
		&room.Id,
		&room.ExternalId,
		&room.Title,
		&room.Description,
		&interests,
		&room.CreatorId,
		&room.CreatorName,
		&members,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Room{}, ErrNotFound
		}
		return Room{}, fmt.Errorf("scan room: %w", err)
	}

	room.Interests = []string(interests)
	room.Members = toInts(members)

	return room, nil
}

func scanMessage(row rowScanner) (Message, error) {
	var msg Message
	err := row.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.SenderId,
		&msg.SenderName,
		&msg.Content,
		&msg.CreatedAt,
	)

	return msg, err
}

func scanReport(row rowScanner) (Report, error) {
	var (
		report       Report
		reportedUser sql.NullInt64
		reportedRoom sql.NullInt64
		status       string
	)

	err := row.Scan(
		&report.Id,
		&report.ReporterId,
		&reportedUser,
		&reportedRoom,
		&report.Reason,
		&report.Description,
		&status,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}

	report.Status = ReportStatus(status)
	if reportedUser.Valid {
		id := int(reportedUser.Int64)
		report.ReportedUserId = &id
	}
	if reportedRoom.Valid {
		id := int(reportedRoom.Int64)
		report.ReportedRoomId = &id
	}

	return report, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toInt64Array(ids []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	return arr
}

func toInts(arr pq.Int64Array) []int {
	ids := make([]int, len(arr))
	for i, id := range arr {
		ids[i] = int(id)
	}
	return ids
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
