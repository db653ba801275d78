package attendanceRepository

const (
	queryCreateSession = `
INSERT INTO attendance_sessions (id, course_code, course_name, teacher_email, status, roster, participants, absentees, started_at)
VALUES (:id, :course_code, :course_name, :teacher_email, :status, :roster, :participants, :absentees, :started_at)`

	queryGetSessionByID = `
SELECT id, course_code, course_name, teacher_email, status, roster, participants, absentees, started_at, completed_at
FROM attendance_sessions
    WHERE id = :id`

	queryAddParticipant = `
UPDATE attendance_sessions
SET participants = array_append(participants, :student_number)
WHERE id = :id
  AND status = 'active'
  AND NOT (:student_number = ANY(participants))`

	queryRemoveParticipant = `
UPDATE attendance_sessions
SET participants = array_remove(participants, :student_number)
WHERE id = :id
  AND status = 'active'`

	queryCompleteSession = `
UPDATE attendance_sessions
SET status = 'completed',
    absentees = :absentees,
    completed_at = :completed_at
WHERE id = :id
  AND status = 'active'`

	queryListActiveForStudent = `
SELECT id, course_code, course_name, teacher_email, status, roster, participants, absentees, started_at, completed_at
FROM attendance_sessions
    WHERE status = 'active'
      AND :student_number = ANY(roster)
ORDER BY started_at DESC`

	queryGetActiveForTeacher = `
SELECT id, course_code, course_name, teacher_email, status, roster, participants, absentees, started_at, completed_at
FROM attendance_sessions
    WHERE status = 'active'
      AND teacher_email = :teacher_email
ORDER BY started_at DESC
LIMIT 1`

	queryCourseStatsForStudent = `
SELECT course_code,
       course_name,
       COUNT(*) AS total_sessions,
       COUNT(*) FILTER (WHERE :student_number = ANY(participants)) AS attended_count
FROM attendance_sessions
    WHERE status = 'completed'
      AND :student_number = ANY(roster)
GROUP BY course_code, course_name
ORDER BY course_code`

	queryListStudentsByNumbers = `
SELECT student_number, first_name, last_name, phone_number, face_photo_url, updated_at
FROM students
    WHERE student_number = ANY(:student_numbers)
ORDER BY student_number`
)
