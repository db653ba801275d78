package courseRepository

const (
	queryCreateCourse = `
INSERT INTO courses (id, code, name, teacher_email, students, created_at, updated_at)
VALUES (:id, :code, :name, :teacher_email, :students, :created_at, :updated_at)`

	queryGetByCode = `
SELECT id, code, name, teacher_email, students, created_at, updated_at
FROM courses
    WHERE code = :code`

	queryListAll = `
SELECT id, code, name, teacher_email, students, created_at, updated_at
FROM courses
ORDER BY code`

	queryListByTeacher = `
SELECT id, code, name, teacher_email, students, created_at, updated_at
FROM courses
    WHERE teacher_email = :teacher_email
ORDER BY code`

	queryUpdateCourse = `
UPDATE courses
SET name = :name,
    teacher_email = :teacher_email,
    students = :students,
    updated_at = :updated_at
WHERE code = :code`

	queryDeleteCourse = `
DELETE FROM courses
WHERE code = :code`
)
