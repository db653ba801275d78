package authRepository

const (
	queryCreateUser = `
INSERT INTO users (id, email, name, surname, role, student_number, phone_number, password, created_at, updated_at)
VALUES (:id, :email, :name, :surname, :role, :student_number, :phone_number, :password, :created_at, :updated_at)`

	queryGetByEmail = `
SELECT id, email, name, surname, role, student_number, phone_number, password, created_at, updated_at
FROM users
    WHERE email = :email`

	queryGetByID = `
SELECT id, email, name, surname, role, student_number, phone_number, password, created_at, updated_at
FROM users
    WHERE id = :id`
)
