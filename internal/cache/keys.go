package cache

import "fmt"

const keyPrefix = "teacher-portal"

func SkillsKey(grade int) string {
	return fmt.Sprintf("%s:catalog:skills:grade:%d", keyPrefix, grade)
}

func ClassStudentsKey(classID string) string {
	return fmt.Sprintf("%s:catalog:class:%s:students", keyPrefix, classID)
}

// ClassPattern matches every cached entry of a class.
func ClassPattern(classID string) string {
	return fmt.Sprintf("%s:catalog:class:%s:*", keyPrefix, classID)
}
