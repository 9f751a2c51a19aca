package export

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduct-server-go/models"
)

var roster7A = []models.Student{
	{Name: "Ali", Score: 1, Positive: []string{"واجبات", "احترام"}, Negative: []string{"تأخر"}},
	{Name: "Sara", Score: 0, Positive: []string{}, Negative: []string{}},
}

func TestClassTSV(t *testing.T) {
	got := ClassTSV(roster7A)

	want := ClassHeader + "\n" +
		"Ali\t1\tواجبات,احترام\tتأخر\n" +
		"Sara\t0\t\t\n"
	assert.Equal(t, want, got)
}

func TestClassTSV_EveryStudentOnceInOrder(t *testing.T) {
	students := []models.Student{
		models.NewStudent("Zaid"), models.NewStudent("Ali"), models.NewStudent("Mona"),
	}

	lines := strings.Split(strings.TrimSuffix(ClassTSV(students), "\n"), "\n")

	require.Len(t, lines, 4)
	for i, s := range students {
		assert.True(t, strings.HasPrefix(lines[i+1], s.Name+"\t"), "line %d", i+1)
	}
}

func TestClassTSV_KeepsFieldsOnOneLine(t *testing.T) {
	got := ClassTSV([]models.Student{models.NewStudent("Ali\tB\nC")})

	assert.Equal(t, ClassHeader+"\nAli B C\t0\t\t\n", got)
}

func TestStoreCSV(t *testing.T) {
	classes := []models.Clazz{
		{Name: "7A", Students: roster7A},
		{Name: "Class, B", Students: []models.Student{models.NewStudent("Omar")}},
		{Name: "Empty", Students: []models.Student{}},
	}

	got, err := StoreCSV(classes)
	require.NoError(t, err)

	want := "class,name,score,positive,negative\n" +
		"7A,Ali,1,واجبات - احترام,تأخر\n" +
		"7A,Sara,0,,\n" +
		"\"Class, B\",Omar,0,,\n"
	assert.Equal(t, want, got)
}

func TestWithBOM(t *testing.T) {
	data, err := WithBOM("الاسم")
	require.NoError(t, err)

	assert.Equal(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("الاسم")...), data)
}

func TestDataURI(t *testing.T) {
	uri := DataURI("text/csv", []byte("a,b\n"))

	prefix := "data:text/csv;charset=utf-8;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(decoded))
}
